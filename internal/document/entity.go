package document

// EntityRef references an entity in a document's entity map.
type EntityRef string

// Entity kinds known to markflow.
const (
	EntityMedia = "MEDIA"
)

// Entity is opaque data owned by a collaborator (e.g. a dropped image).
// The engine never inspects Data.
type Entity struct {
	Kind string
	Data map[string]any
}
