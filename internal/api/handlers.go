package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smallcapsignal/signal-backend/internal/auth"
	"github.com/smallcapsignal/signal-backend/internal/blog"
	"github.com/smallcapsignal/signal-backend/internal/config"
	"github.com/smallcapsignal/signal-backend/internal/mailer"
	"github.com/smallcapsignal/signal-backend/internal/newsletter"
	"github.com/smallcapsignal/signal-backend/internal/pkg/logger"
	"github.com/smallcapsignal/signal-backend/internal/subscribers"
)

// rssItemLimit caps the feed at the latest posts.
const rssItemLimit = 20

// Handlers contains all HTTP handlers
type Handlers struct {
	posts      *blog.PostStore
	subs       *subscribers.Store
	gate       *auth.Gate
	sender     mailer.Sender
	dispatcher *newsletter.Dispatcher
	cfg        *config.Config
}

// NewHandlers creates a new Handlers instance
func NewHandlers(posts *blog.PostStore, subs *subscribers.Store, gate *auth.Gate,
	sender mailer.Sender, dispatcher *newsletter.Dispatcher, cfg *config.Config) *Handlers {
	return &Handlers{
		posts:      posts,
		subs:       subs,
		gate:       gate,
		sender:     sender,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// validEmail reports whether s is a bare, syntactically valid address
// with a dotted domain. mail.ParseAddress alone accepts "user@host",
// which no public mailbox uses.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return strings.Contains(s[at+1:], ".")
}

// HealthCheck reports service liveness
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// GetPosts returns all posts, newest first
func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		logger.Error("list posts failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// CreatePost publishes a new post
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var np blog.NewPost
	if err := json.NewDecoder(r.Body).Decode(&np); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if strings.TrimSpace(np.Title) == "" || strings.TrimSpace(np.Content) == "" ||
		strings.TrimSpace(np.Author) == "" {
		respondError(w, http.StatusUnprocessableEntity, "title, content and author are required")
		return
	}

	post, err := h.posts.Create(r.Context(), np)
	if err != nil {
		logger.Error("create post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create post")
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

// DeletePost removes a post by id
func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.posts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Post not found")
			return
		}
		logger.Error("delete post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetRSS renders the RSS 2.0 feed of the latest posts
func (h *Handlers) GetRSS(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Latest(r.Context(), rssItemLimit)
	if err != nil {
		logger.Error("rss feed query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to build feed")
		return
	}

	feed := blog.RenderFeed(blog.FeedInfo{
		Title:       h.cfg.Site.Name,
		Link:        h.cfg.Site.BaseURL,
		Description: h.cfg.Site.Description,
		LogoURL:     h.cfg.Site.LogoURL,
	}, posts, time.Now())

	w.Header().Set("Content-Type", "application/rss+xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(feed))
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe adds an email to the newsletter list. Idempotent: repeat
// subscriptions succeed without creating a second record.
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	email := subscribers.Normalize(req.Email)
	if !validEmail(email) {
		respondError(w, http.StatusUnprocessableEntity, "a valid email address is required")
		return
	}

	created, err := h.subs.Subscribe(r.Context(), email)
	if err != nil {
		logger.Error("subscribe failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}

	message := "You're already subscribed!"
	if created {
		message = "Thank you for subscribing!"
		// The welcome email is a notification, not part of the state
		// change: a transport failure never rolls back the subscription.
		if err := h.sender.Send(r.Context(), mailer.WelcomeMessage(h.cfg.Site, email)); err != nil {
			logger.Warn("welcome email failed", "subscriber", email, "error", err)
		}
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"email":   email,
		"message": message,
	})
}

// GetSubscribers returns the full subscriber list
func (h *Handlers) GetSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subs.List(r.Context())
	if err != nil {
		logger.Error("list subscribers failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get subscribers")
		return
	}
	respondJSON(w, http.StatusOK, subs)
}

// DeleteSubscriber removes a subscriber by email
func (h *Handlers) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if unescaped, err := url.PathUnescape(email); err == nil {
		email = unescaped
	}

	if err := h.subs.Delete(r.Context(), email); err != nil {
		if errors.Is(err, subscribers.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Subscriber not found")
			return
		}
		logger.Error("delete subscriber failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete subscriber")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Subscriber deleted successfully",
	})
}

type newsletterRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SendNewsletter dispatches one message to every subscriber and returns
// the tally. The call succeeds (200) even when individual sends failed;
// only precondition failures abort it.
func (h *Handlers) SendNewsletter(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusUnprocessableEntity, "subject and message are required")
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), req.Subject, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, newsletter.ErrNoSubscribers):
			respondError(w, http.StatusNotFound, "No subscribers found")
		case errors.Is(err, newsletter.ErrDispatchInProgress):
			respondError(w, http.StatusConflict, "A newsletter dispatch is already in progress")
		default:
			logger.Error("newsletter dispatch failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to send newsletter")
		}
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Contact relays a contact-form submission to the operator inbox
func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusUnprocessableEntity, "name and message are required")
		return
	}
	if !validEmail(req.Email) {
		respondError(w, http.StatusUnprocessableEntity, "a valid email address is required")
		return
	}

	msg := mailer.ContactMessage(h.cfg.SMTP.ContactRecipient, h.cfg.Site.Name,
		req.Name, req.Email, req.Message)
	if err := h.sender.Send(r.Context(), msg); err != nil {
		logger.Error("contact relay failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Message sent successfully! We'll get back to you soon.",
	})
}

// VerifyKey confirms a valid API key. The gate middleware has already
// authorized the request by the time this handler runs.
func (h *Handlers) VerifyKey(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "API key is valid",
	})
}

// GetConfig reports whether an API key is configured, without exposing it
func (h *Handlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"apiKeyAvailable": h.gate.Configured(),
		"apiKeyLength":    h.gate.KeyLength(),
	})
}
