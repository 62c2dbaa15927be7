package models

// ArtifactKind identifies one of the five generated component sources.
type ArtifactKind string

const (
	ArtifactList   ArtifactKind = "List"
	ArtifactCreate ArtifactKind = "Create"
	ArtifactUpdate ArtifactKind = "Update"
	ArtifactDelete ArtifactKind = "Delete"
	ArtifactMain   ArtifactKind = "Main"
)

// ArtifactKinds returns the five kinds in generation order.
func ArtifactKinds() []ArtifactKind {
	return []ArtifactKind{ArtifactList, ArtifactCreate, ArtifactUpdate, ArtifactDelete, ArtifactMain}
}

// ComponentArtifact is the generated source text of one component.
type ComponentArtifact struct {
	Kind      ArtifactKind
	Component string // identifier, e.g. "ProductList"
	Extension string // file extension without the dot
	Source    string
}

// FileName returns "<Component>.<Extension>".
func (a ComponentArtifact) FileName() string {
	return a.Component + "." + a.Extension
}
