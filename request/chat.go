package request

// ChatRequest 兼容 message 与 question 两种字段名（历史前端并存）
type ChatRequest struct {
	Message  string `json:"message"`
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// Query 取非空的提问内容
func (r *ChatRequest) Query() string {
	if r.Question != "" {
		return r.Question
	}
	return r.Message
}
