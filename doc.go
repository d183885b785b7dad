// Package cognicart provides an embedded shopping recommendation engine:
// free-text query interpretation, weighted catalog ranking, review
// summarization and deal detection, without running the HTTP service.
//
//	client, _ := cognicart.New(ctx,
//	    cognicart.WithCatalogFile("config/catalog.json"),
//	)
//	defer client.Close()
//
//	res, _ := client.Search(ctx, "bluetooth headphones under 2000")
//	for _, p := range res.Products {
//	    fmt.Println(p.Title, p.Price)
//	}
//
// Without WithOpenAI the engine interprets queries with its built-in
// heuristics and skips review analysis; with it, extraction, review
// digests and narratives use the configured model.
//
// Streaming callers receive per-stage progress events:
//
//	events, _ := client.SearchStream(ctx, "running shoes under 3000")
//	for ev := range events {
//	    fmt.Println(ev.Stage, ev.Message)
//	}
package cognicart
