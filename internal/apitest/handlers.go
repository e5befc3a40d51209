package apitest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	UserID   int     `json:"user_id"`
	Name     string  `json:"name"`
	IsAdmin  bool    `json:"is_admin"`
	Nickname *string `json:"nickname"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

type bookResponse struct {
	BookID      int     `json:"book_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	WordsCount  int     `json:"words_count"`
}

type dailyPlanResponse struct {
	BookID      int  `json:"book_id"`
	Progress    int  `json:"progress"`
	IsSubmitted bool `json:"is_submitted"`
}

type wordResponse struct {
	IsSubmitted bool    `json:"is_submitted"`
	BookID      int     `json:"book_id"`
	WordID      int     `json:"word_id"`
	Spelling    string  `json:"spelling"`
	Translation *string `json:"translation"`
}

// tokenForm mirrors the strict OAuth2 password request form
type tokenForm struct {
	Username  string `form:"username" binding:"required"`
	Password  string `form:"password" binding:"required"`
	GrantType string `form:"grant_type" binding:"required,eq=password"`
}

func (s *Server) issueToken(c *gin.Context) {
	var form tokenForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	var found *user
	for _, u := range s.usersByID {
		if u.name == form.Username {
			found = u
			break
		}
	}
	s.mu.Unlock()

	if found == nil || verifyPassword(form.Password, found.passwordHash) != nil {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect user or password"})
		return
	}

	token, err := s.generateToken(found.id, tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) getCurrentUser(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	s.mu.Lock()
	u := s.usersByID[userID]
	resp := userResponse{
		UserID:   u.id,
		Name:     u.name,
		IsAdmin:  u.isAdmin,
		Nickname: u.nickname,
		Email:    u.email,
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, resp)
}

func (s *Server) getBookByID(c *gin.Context) {
	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Incorrect book"})
		return
	}

	s.mu.Lock()
	b := s.bookByID(bookID)
	delay := s.delays[bookID]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return
		}
	}

	if b == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Incorrect book"})
		return
	}

	c.JSON(http.StatusOK, bookResponse{
		BookID:      b.id,
		Name:        b.name,
		Description: b.description,
		WordsCount:  len(b.words),
	})
}

func (s *Server) listDailyPlans(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	s.mu.Lock()
	plans := make([]dailyPlanResponse, 0, len(s.plans[userID]))
	for _, p := range s.plans[userID] {
		plans = append(plans, dailyPlanResponse{BookID: p.bookID, Progress: p.progress, IsSubmitted: p.isSubmitted})
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, plans)
}

// getPlanWord returns the word at the plan's progress; the translation is
// only revealed once the word has been submitted
func (s *Server) getPlanWord(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	b, p, detail := s.lookupPlan(userID, c.Param("bookName"))
	if detail != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
		return
	}
	if p.progress >= len(b.words) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Incorrect word"})
		return
	}

	c.JSON(http.StatusOK, wordAt(b, p.progress, p.isSubmitted))
}

// submitPlanWord reveals the current word on the first submission and
// advances the plan on the second
func (s *Server) submitPlanWord(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	b, p, detail := s.lookupPlan(userID, c.Param("bookName"))
	if detail != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
		return
	}
	if p.progress >= len(b.words) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Incorrect word"})
		return
	}

	submitted := wordAt(b, p.progress, true)
	if p.isSubmitted {
		p.progress++
		p.isSubmitted = false
	} else {
		p.isSubmitted = true
	}

	if s.bodylessSubmit {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, submitted)
}

// lookupPlan must be called with s.mu held
func (s *Server) lookupPlan(userID int, bookName string) (*book, *plan, string) {
	var b *book
	for _, candidate := range s.books {
		if candidate.name == bookName {
			b = candidate
			break
		}
	}
	if b == nil {
		return nil, nil, "Incorrect book"
	}

	for _, p := range s.plans[userID] {
		if p.bookID == b.id {
			return b, p, ""
		}
	}
	return nil, nil, "Incorrect daily_plan"
}

// bookByID must be called with s.mu held
func (s *Server) bookByID(bookID int) *book {
	for _, b := range s.books {
		if b.id == bookID {
			return b
		}
	}
	return nil
}

func wordAt(b *book, index int, submitted bool) wordResponse {
	w := b.words[index]
	resp := wordResponse{
		IsSubmitted: submitted,
		BookID:      b.id,
		WordID:      b.id*1000 + index + 1,
		Spelling:    w.Spelling,
	}
	if submitted {
		resp.Translation = optional(w.Translation)
	}
	return resp
}
