package search

import "time"

// Repository describes one repository returned by the search service.
type Repository struct {
	Name          string     `json:"name"`
	FullName      string     `json:"full_name"`
	Owner         string     `json:"owner"`
	Description   string     `json:"description"`
	HTMLURL       string     `json:"html_url"`
	CloneURL      string     `json:"clone_url"`
	Stars         int        `json:"stars"`
	Forks         int        `json:"forks"`
	Language      string     `json:"language"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	Size          int        `json:"size"`
	Topics        []string   `json:"topics"`
	SearchKeyword string     `json:"search_keyword"`
}

// searchResponse mirrors the GitHub repository search API response.
type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []searchItem `json:"items"`
}

type searchItem struct {
	Name        string     `json:"name"`
	FullName    string     `json:"full_name"`
	Description string     `json:"description"`
	HTMLURL     string     `json:"html_url"`
	CloneURL    string     `json:"clone_url"`
	Stars       int        `json:"stargazers_count"`
	Forks       int        `json:"forks_count"`
	Language    string     `json:"language"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	Size        int        `json:"size"`
	Topics      []string   `json:"topics"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func (it searchItem) toRepository(keyword string) Repository {
	return Repository{
		Name:          it.Name,
		FullName:      it.FullName,
		Owner:         it.Owner.Login,
		Description:   it.Description,
		HTMLURL:       it.HTMLURL,
		CloneURL:      it.CloneURL,
		Stars:         it.Stars,
		Forks:         it.Forks,
		Language:      it.Language,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
		Size:          it.Size,
		Topics:        it.Topics,
		SearchKeyword: keyword,
	}
}

// DefaultKeywords is the fixed keyword list driving repository discovery.
func DefaultKeywords() []string {
	return []string{
		"config collector",
		"v2ray collector",
		"proxy collector",
		"shadowsocks collector",
		"vless collector",
		"vmess collector",
		"trojan collector",
		"ss collector",
		"hy2 collector",
		"proxy configs",
		"v2ray configs",
		"shadowsocks configs",
		"subscription",
		"sub merge",
		"config merge",
	}
}
