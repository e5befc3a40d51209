// Package apitest provides an in-process fake of the Lexicon backend for tests.
//
// It serves the same routes as the real API (password-grant token endpoint,
// user, books, daily plans and plan words) from in-memory fixtures, signs
// real HS256 access tokens and can be told to fail or slow down specific
// requests.
package apitest

import (
	"crypto/rand"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// Request is a request observed by the fake backend
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
}

// WordFixture is a word of a fixture book
type WordFixture struct {
	Spelling    string
	Translation string
}

type user struct {
	id           int
	name         string
	passwordHash string
	isAdmin      bool
	nickname     *string
	email        *string
}

type book struct {
	id          int
	name        string
	description *string
	words       []WordFixture
}

type plan struct {
	bookID      int
	progress    int
	isSubmitted bool
}

type forcedResponse struct {
	status  int
	times   int
	rawBody string
}

// Server is a fake backend listening on a loopback address
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	secret    []byte
	router    *gin.Engine
	usersByID map[int]*user
	books     []*book
	plans     map[int][]*plan // keyed by user ID, in creation order
	forced    map[string]*forcedResponse
	delays    map[int]time.Duration // book-by-id latency, keyed by book ID
	requests  []Request
	nextID    int

	bodylessSubmit bool
}

// New starts a fake backend that is closed when the test ends
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		t.Fatalf("failed to generate signing key: %v", err)
	}

	s := &Server{
		secret:    secret,
		usersByID: make(map[int]*user),
		plans:     make(map[int][]*plan),
		forced:    make(map[string]*forcedResponse),
		delays:    make(map[int]time.Duration),
	}
	s.setupRoutes()
	s.Server = httptest.NewServer(s.router)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) setupRoutes() {
	s.router = gin.New()
	s.router.Use(gin.Recovery(), s.recordMiddleware(), s.forcedStatusMiddleware())

	s.router.POST("/api/token", s.issueToken)

	api := s.router.Group("/api")
	api.Use(s.authMiddleware())
	{
		api.GET("/user", s.getCurrentUser)
		api.GET("/book-by-id/:id", s.getBookByID)
		api.GET("/daily-plans", s.listDailyPlans)
		api.GET("/daily-plan/:bookName/word", s.getPlanWord)
		api.POST("/daily-plan/:bookName/word", s.submitPlanWord)
	}
}

func (s *Server) newID() int {
	s.nextID++
	return s.nextID
}

// AddUser registers an account and returns its ID
func (s *Server) AddUser(t testing.TB, name, password string) int {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := &user{id: s.newID(), name: name, passwordHash: hash}
	s.usersByID[u.id] = u
	return u.id
}

// SetProfile sets optional profile fields of a user
func (s *Server) SetProfile(userID int, nickname, email string, isAdmin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.usersByID[userID]
	if u == nil {
		return
	}
	u.nickname = optional(nickname)
	u.email = optional(email)
	u.isAdmin = isAdmin
}

// AddBook registers a book with its ordered words and returns its ID
func (s *Server) AddBook(name, description string, words ...WordFixture) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &book{id: s.newID(), name: name, description: optional(description), words: words}
	s.books = append(s.books, b)
	return b.id
}

// AddPlan starts a daily plan for a user in a book
func (s *Server) AddPlan(userID, bookID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[userID] = append(s.plans[userID], &plan{bookID: bookID})
}

// Progress reports a plan's position
func (s *Server) Progress(userID, bookID int) (progress int, submitted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.plans[userID] {
		if p.bookID == bookID {
			return p.progress, p.isSubmitted
		}
	}
	return -1, false
}

// IssueToken signs a token for a user without going through /api/token
func (s *Server) IssueToken(t testing.TB, userID int) string {
	t.Helper()
	token, err := s.generateToken(userID, tokenTTL)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return token
}

// IssueExpiredToken signs a token that is already expired
func (s *Server) IssueExpiredToken(t testing.TB, userID int) string {
	t.Helper()
	token, err := s.generateToken(userID, -time.Minute)
	if err != nil {
		t.Fatalf("IssueExpiredToken: %v", err)
	}
	return token
}

// ForceStatus makes the next `times` requests to method+path answer with
// status. A negative count keeps the override in place.
func (s *Server) ForceStatus(method, path string, status, times int) {
	s.ForceResponse(method, path, status, "", times)
}

// ForceResponse is ForceStatus with a raw JSON body
func (s *Server) ForceResponse(method, path string, status int, rawBody string, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced[method+" "+path] = &forcedResponse{status: status, times: times, rawBody: rawBody}
}

// DelayBook slows down book-by-id responses for one book
func (s *Server) DelayBook(bookID int, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[bookID] = d
}

// SetBodylessSubmit makes word submissions answer 200 with a null body, as
// the production backend does, instead of echoing the submitted word
func (s *Server) SetBodylessSubmit(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodylessSubmit = on
}

// Requests returns the requests observed so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Reset drops recorded requests and forced responses
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.forced = make(map[string]*forcedResponse)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
