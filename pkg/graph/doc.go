// Package graph turns a JSON document into the node graph shown by the
// visualizer.
//
// # Shape
//
// Every object and array in the document becomes a [Node]. An object node
// carries its scalar properties as rows (see package node); each nested
// object or array becomes a child node connected by an [Edge] labelled with
// the property key. Array items become child nodes labelled "[i]"; a scalar
// item is a node with a single keyless row. A document that is itself a
// scalar is one node.
//
//	{"name": "app", "deps": [{"id": "a"}], "meta": {"v": 1}}
//
//	1 root  {name: "app"}
//	├─ 2 deps [1]
//	│  └─ 3 [0]  {id: "a"}
//	└─ 4 meta  {v: 1}
//
// Node IDs are assigned in depth-first preorder starting at "1", so the same
// document always yields the same IDs. Each node records its structural
// [jsonpath.Path], which is what the editor patches.
//
// # Export
//
// [ToDOT] writes Graphviz DOT text; [Render] renders it to SVG or PNG with
// the embedded Graphviz build from go-graphviz.
//
// # Concurrency
//
// A built Graph is read-only and safe for concurrent reads.
package graph
