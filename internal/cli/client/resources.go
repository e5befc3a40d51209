package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// FetchUser returns the current account
func (c *Client) FetchUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/user", auth: true}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchBookByID returns a book by its numeric ID
func (c *Client) FetchBookByID(ctx context.Context, bookID int) (*Book, error) {
	var book Book
	path := fmt.Sprintf("/api/book-by-id/%d", bookID)
	if err := c.do(ctx, request{method: http.MethodGet, path: path, auth: true}, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// FetchDailyPlans returns the user's daily plans in server order
func (c *Client) FetchDailyPlans(ctx context.Context) ([]DailyPlan, error) {
	var plans []DailyPlan
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/daily-plans", auth: true}, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// FetchDailyPlanWord returns the current word of the plan for bookName
func (c *Client) FetchDailyPlanWord(ctx context.Context, bookName string) (*Word, error) {
	var word Word
	if err := c.do(ctx, request{method: http.MethodGet, path: planWordPath(bookName), auth: true}, &word); err != nil {
		return nil, err
	}
	return &word, nil
}

// SubmitDailyPlanWord submits the current word of the plan for bookName.
// The request carries no answer; the server only advances the plan. Servers
// that answer without a body yield a nil word.
func (c *Client) SubmitDailyPlanWord(ctx context.Context, bookName string) (*Word, error) {
	var word *Word
	err := c.do(ctx, request{
		method:       http.MethodPost,
		path:         planWordPath(bookName),
		auth:         true,
		optionalBody: true,
	}, &word)
	if err != nil {
		return nil, err
	}
	return word, nil
}

func planWordPath(bookName string) string {
	return fmt.Sprintf("/api/daily-plan/%s/word", url.PathEscape(bookName))
}
