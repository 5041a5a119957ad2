// Package mtx assembles a layered configuration store.
//
// Configuration fragments (*.config JSON files) are discovered under a base
// directory, deep-merged in sorted path order and exposed through a
// store.Store with dotted and bracketed key paths. Every mutation is
// persisted to a cache file after a short quiet period.
//
// App wires the store, logging and an optional HTTP API with go.uber.org/fx:
//
//	app := mtx.NewApp(
//		mtx.WithStore(store.WithBaseDir("/srv/app")),
//		mtx.WithHTTPAPI("api", listener.WithAddress(":8080")),
//	)
//	app.Run()
package mtx
