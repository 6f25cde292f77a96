// Package content defines the value types shared by every resolver stage:
// files awaiting ingestion, the content sets they are grouped into, and the
// processing manifests emitted for downstream ingestion.
//
// Values are constructed with every field explicit and never mutated in
// place once handed to another component; the With* helpers return copies.
package content
