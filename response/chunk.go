package response

type ChunkResponse struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Source    string `json:"source"`
	CreatedAt int64  `json:"created_at"`
}

type ChunkListResponse struct {
	Chunks []ChunkResponse `json:"chunks"`
}
