package transfer

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type DebugTokenResponse struct {
	Data struct {
		AppID     string `json:"app_id"`
		IsValid   bool   `json:"is_valid"`
		ExpiresAt int64  `json:"expires_at"`
		Scopes    []string `json:"scopes"`
	} `json:"data"`
}

type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
	Category    string `json:"category"`
}

type PagesResponse struct {
	Data []Page `json:"data"`
}

type FeedPost struct {
	ID           string `json:"id"`
	Message      string `json:"message"`
	CreatedTime  string `json:"created_time"`
	PermalinkURL string `json:"permalink_url"`
}

type FeedResponse struct {
	Data []FeedPost `json:"data"`
}

type FeedComment struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	CreatedTime string `json:"created_time"`
}

type CommentsResponse struct {
	Data []FeedComment `json:"data"`
}

type CreateResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}
