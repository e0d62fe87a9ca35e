package response

type ChatReference struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

type ChatMeta struct {
	TopK       int    `json:"top_k"`
	Hits       int    `json:"hits"`
	Collection string `json:"collection"`
}

type ChatResponse struct {
	Answer     string          `json:"answer"`
	References []ChatReference `json:"references"`
	Meta       ChatMeta        `json:"meta"`
}
