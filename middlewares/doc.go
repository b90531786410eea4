// Package middlewares provides HTTP integration for uploadkit processors.
//
// # Upload
//
// Upload middleware runs every multipart request through a processor and
// places the result in the request context:
//
//	p := uploadkit.New(
//	    uploadkit.WithFilter(filter),
//	    uploadkit.WithLimits(limits),
//	    uploadkit.WithSink(disk),
//	)
//
//	r := chi.NewRouter()
//	r.With(middlewares.Upload(p)).Post("/upload", func(w http.ResponseWriter, r *http.Request) {
//	    res, _ := middlewares.ResultFromContext(r.Context())
//	    for _, f := range res.Files {
//	        // handle stored files
//	    }
//	})
//
// Non-multipart requests pass through untouched. Processing failures are
// rendered by the configurable error handler; the default responds with
// JSON and maps file size rejections to 413, everything else to 400.
package middlewares
