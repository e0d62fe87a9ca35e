package response

type UserAuthResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}
