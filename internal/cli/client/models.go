package client

// Credentials are submitted once on login and never stored
type Credentials struct {
	Username   string
	Password   string
	RememberMe bool
}

// TokenResponse represents the password-grant response
type TokenResponse struct {
	AccessToken string `json:"access_token" validate:"required"`
	TokenType   string `json:"token_type"`
}

// User represents the current account
type User struct {
	UserID   int     `json:"user_id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	IsAdmin  bool    `json:"is_admin"`
	Nickname *string `json:"nickname"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

// DisplayName prefers the nickname when one is set
func (u *User) DisplayName() string {
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	return u.Name
}

// Book represents a word book
type Book struct {
	BookID      int     `json:"book_id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	WordsCount  int     `json:"words_count" validate:"min=0"`
}

// DailyPlan is the user's review progress in one book
type DailyPlan struct {
	BookID   int `json:"book_id" validate:"required"`
	Progress int `json:"progress" validate:"min=0"`
}

// Word is the current word of a daily plan. Translation is only sent once
// the word has been submitted.
type Word struct {
	BookID      int     `json:"book_id" validate:"required"`
	WordID      int     `json:"word_id" validate:"required"`
	Spelling    string  `json:"spelling" validate:"required"`
	Translation *string `json:"translation"`
	IsSubmitted bool    `json:"is_submitted"`
}

// TranslationText returns the translation or "" when absent
func (w *Word) TranslationText() string {
	if w.Translation == nil {
		return ""
	}
	return *w.Translation
}
