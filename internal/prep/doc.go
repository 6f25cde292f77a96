// Package prep wires listing, detection, ordering, manifest generation and
// persistence into the operations exposed by the CLI.
//
// Every operation computes its full result before touching the store, so a
// failure part-way through never leaves a half-analysed folder or a
// manifest without its status change.
package prep
