package queue

const (
	TypeArtifactExpire = "artifact:expire"
)

type ArtifactExpirePayload struct {
	ArtifactID string `json:"artifact_id"`
	Bucket     string `json:"bucket"`
	Path       string `json:"path"`
}
