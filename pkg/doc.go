// Package pkg provides the libraries behind jsonlens, a viewer and editor
// that shows a JSON document as a graph of nodes.
//
// # Overview
//
// A document is split into nodes: every object, every array and every
// scalar array item becomes a node, and the scalar properties of an object
// become the rows of its node. Users select one node at a time, edit its
// rows as JSON text and save; the text is patched back into the document
// at the node's path.
//
// # Architecture
//
// The data flow through jsonlens:
//
//	Document store (file, SQLite, Redis, MongoDB)
//	         ↓
//	    [jsonvalue] (parse, order-preserving values)
//	         ↓
//	    [graph] (nodes, rows, edges; DOT/SVG/PNG/JSON export)
//	         ↓
//	    [selection] → [editor] (Viewing/Editing, save via [patch])
//	         ↓
//	    Document store
//
// # Main Packages
//
//   - [jsonvalue]: JSON values that keep member order
//   - [jsonpath]: structural paths and their text form
//   - [node]: node rows and their edit text
//   - [graph]: document to node graph, rendering
//   - [patch]: replace one subtree of a document
//   - [selection]: the selected node of a loaded graph
//   - [editor]: the edit state machine and save sequence
//   - [store]: document storage backends
//   - [notify]: user-facing success and failure messages
//   - [api]: HTTP API with per-client edit sessions
//   - [cache]: rendered graph artifacts
//   - [config]: TOML configuration
//   - [errors]: coded errors shared by all packages
//   - [observability]: edit, store and HTTP hooks
//   - [retry]: backoff for transient failures
//
// [jsonvalue]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/jsonvalue
// [jsonpath]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/jsonpath
// [node]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/node
// [graph]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/graph
// [patch]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/patch
// [selection]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/selection
// [editor]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/editor
// [store]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/store
// [notify]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/notify
// [api]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/api
// [cache]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/observability
// [retry]: https://pkg.go.dev/github.com/matzehuels/jsonlens/pkg/retry
package pkg
