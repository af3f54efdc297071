package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/nasermirzaei89/postbook/contents"
)

type Handler struct {
	mux         *http.ServeMux
	handler     http.Handler
	contentsSvc *contents.Service
}

var _ http.Handler = (*Handler)(nil)

func NewHandler(contentsSvc *contents.Service) *Handler {
	h := &Handler{
		mux:         nil,
		handler:     nil,
		contentsSvc: contentsSvc,
	}

	{
		h.mux = &http.ServeMux{}
		h.handler = h.mux

		h.registerRoutes()
	}

	{
		h.handler = requestIDMiddleware(h.handler)
		h.handler = recoverMiddleware(h.handler)
	}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.Handle("GET /healthz", h.HandleHealth())

	h.mux.Handle("GET /posts", h.HandleListPosts())
	h.mux.Handle("GET /posts/search", h.HandleSearchPosts())
	h.mux.Handle("GET /posts/{postId}", h.HandleGetPost())
	h.mux.Handle("POST /posts", h.HandleCreatePost())
	h.mux.Handle("PUT /posts/{postId}", h.HandleUpdatePost())
	h.mux.Handle("DELETE /posts/{postId}", h.HandleDeletePost())
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func(ctx context.Context) {
			if err := recover(); err != nil {
				slog.ErrorContext(
					ctx,
					"recovered from panic",
					"error",
					err,
					"stack",
					string(debug.Stack()),
				)

				writeError(w, r, http.StatusInternalServerError, "internal error occurred")
			}
		}(r.Context())

		next.ServeHTTP(w, r)
	})
}

type Post struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// PostInput is the request payload for create and update. Any id sent by the client is ignored.
type PostInput struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toPost(post *contents.Post) Post {
	return Post{
		ID:       post.ID,
		Title:    post.Title,
		Body:     post.Body,
		Category: post.Category,
		Date:     post.Date,
	}
}

func toPosts(posts []*contents.Post) []Post {
	result := make([]Post, 0, len(posts))

	for _, post := range posts {
		result = append(result, toPost(post))
	}

	return result
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, ErrorResponse{Error: message})
}

// writeServiceError maps post store errors to statuses. Unknown errors are logged and hidden.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var (
		postNotFoundErr   *contents.PostNotFoundError
		invalidInputErr   *contents.InvalidInputError
		duplicateTitleErr *contents.DuplicateTitleError
	)

	switch {
	case errors.As(err, &postNotFoundErr):
		writeError(w, r, http.StatusNotFound, postNotFoundErr.Error())
	case errors.As(err, &invalidInputErr):
		writeError(w, r, http.StatusUnprocessableEntity, invalidInputErr.Error())
	case errors.As(err, &duplicateTitleErr):
		writeError(w, r, http.StatusUnprocessableEntity, duplicateTitleErr.Error())
	default:
		slog.ErrorContext(r.Context(), msg, "requestId", RequestIDFromContext(r.Context()), "error", err)
		writeError(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}

func postIDFromRequest(r *http.Request) (int, error) {
	raw := r.PathValue("postId")

	postID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q: %w", raw, err)
	}

	return postID, nil
}

func decodePostInput(r *http.Request) (*PostInput, error) {
	var input PostInput

	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode request body: %w", err)
	}

	return &input, nil
}

func (h *Handler) HandleHealth() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func (h *Handler) HandleListPosts() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.contentsSvc.FindAll(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "failed to list posts")

			return
		}

		writeJSON(w, r, http.StatusOK, toPosts(posts))
	})
}

func (h *Handler) HandleSearchPosts() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("q")

		posts, err := h.contentsSvc.Search(r.Context(), term)
		if err != nil {
			writeServiceError(w, r, err, "failed to search posts")

			return
		}

		writeJSON(w, r, http.StatusOK, toPosts(posts))
	})
}

func (h *Handler) HandleGetPost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDFromRequest(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())

			return
		}

		post, err := h.contentsSvc.FindOne(r.Context(), postID)
		if err != nil {
			writeServiceError(w, r, err, "failed to get post")

			return
		}

		writeJSON(w, r, http.StatusOK, toPost(post))
	})
}

func (h *Handler) HandleCreatePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		input, err := decodePostInput(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())

			return
		}

		post, err := h.contentsSvc.Create(r.Context(), contents.CreatePostRequest{
			Title:    input.Title,
			Body:     input.Body,
			Category: input.Category,
			Date:     input.Date,
		})
		if err != nil {
			writeServiceError(w, r, err, "failed to create post")

			return
		}

		w.Header().Set("Location", "/posts/"+strconv.Itoa(post.ID))
		writeJSON(w, r, http.StatusCreated, toPost(post))
	})
}

func (h *Handler) HandleUpdatePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDFromRequest(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())

			return
		}

		input, err := decodePostInput(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())

			return
		}

		post, err := h.contentsSvc.Update(r.Context(), postID, contents.UpdatePostRequest{
			Title:    input.Title,
			Body:     input.Body,
			Category: input.Category,
			Date:     input.Date,
		})
		if err != nil {
			writeServiceError(w, r, err, "failed to update post")

			return
		}

		writeJSON(w, r, http.StatusOK, toPost(post))
	})
}

func (h *Handler) HandleDeletePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDFromRequest(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())

			return
		}

		err = h.contentsSvc.Delete(r.Context(), postID)
		if err != nil {
			writeServiceError(w, r, err, "failed to delete post")

			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
