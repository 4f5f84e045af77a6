package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ocmhub/internal/core"
)

// keysFunc extracts the parent key chain of a nested collection from the
// route parameters.
type keysFunc func(r *http.Request) []string

type (
	addFunc[T any]    func(ctx context.Context, keys []string, v T) (T, core.Result, error)
	updateFunc[T any] func(ctx context.Context, keys []string, id string, mut func(*T) error) (T, core.Result, error)
	deleteFunc        func(ctx context.Context, keys []string, id string) (core.Result, error)
)

// collection mounts POST /, PUT /{id} and DELETE /{id} for one entity kind.
func collection[T any](h *Handler, r chi.Router, keys keysFunc, add addFunc[T], update updateFunc[T], del deleteFunc) {
	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		var v T
		if err := decodeBody(w, req, &v); err != nil {
			h.fail(w, req, err)
			return
		}
		created, res, err := add(req.Context(), keys(req), v)
		if err != nil {
			h.fail(w, req, err)
			return
		}
		h.respond(w, http.StatusCreated, created, res)
	})
	r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
		body, err := readBody(w, req)
		if err != nil {
			h.fail(w, req, err)
			return
		}
		mut, err := mergeMutator[T](body)
		if err != nil {
			h.fail(w, req, err)
			return
		}
		updated, res, err := update(req.Context(), keys(req), chi.URLParam(req, "id"), mut)
		if err != nil {
			h.fail(w, req, err)
			return
		}
		h.respond(w, http.StatusOK, updated, res)
	})
	r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
		res, err := del(req.Context(), keys(req), chi.URLParam(req, "id"))
		if err != nil {
			h.fail(w, req, err)
			return
		}
		h.respond(w, http.StatusOK, nil, res)
	})
}

func params(names ...string) keysFunc {
	return func(r *http.Request) []string {
		out := make([]string, len(names))
		for i, n := range names {
			out[i] = chi.URLParam(r, n)
		}
		return out
	}
}

// The adapters below fit the service method shapes onto the generic
// collection signatures.

func topAdd[T any](fn func(context.Context, T) (T, core.Result, error)) addFunc[T] {
	return func(ctx context.Context, _ []string, v T) (T, core.Result, error) { return fn(ctx, v) }
}

func topUpdate[T any](fn func(context.Context, string, func(*T) error) (T, core.Result, error)) updateFunc[T] {
	return func(ctx context.Context, _ []string, id string, mut func(*T) error) (T, core.Result, error) {
		return fn(ctx, id, mut)
	}
}

func topDelete(fn func(context.Context, string) (core.Result, error)) deleteFunc {
	return func(ctx context.Context, _ []string, id string) (core.Result, error) { return fn(ctx, id) }
}

func childAdd[T any](fn func(context.Context, string, T) (T, core.Result, error)) addFunc[T] {
	return func(ctx context.Context, keys []string, v T) (T, core.Result, error) { return fn(ctx, keys[0], v) }
}

func childUpdate[T any](fn func(context.Context, string, string, func(*T) error) (T, core.Result, error)) updateFunc[T] {
	return func(ctx context.Context, keys []string, id string, mut func(*T) error) (T, core.Result, error) {
		return fn(ctx, keys[0], id, mut)
	}
}

func childDelete(fn func(context.Context, string, string) (core.Result, error)) deleteFunc {
	return func(ctx context.Context, keys []string, id string) (core.Result, error) { return fn(ctx, keys[0], id) }
}

func grandchildAdd[T any](fn func(context.Context, string, string, T) (T, core.Result, error)) addFunc[T] {
	return func(ctx context.Context, keys []string, v T) (T, core.Result, error) { return fn(ctx, keys[0], keys[1], v) }
}

func grandchildUpdate[T any](fn func(context.Context, string, string, string, func(*T) error) (T, core.Result, error)) updateFunc[T] {
	return func(ctx context.Context, keys []string, id string, mut func(*T) error) (T, core.Result, error) {
		return fn(ctx, keys[0], keys[1], id, mut)
	}
}

func grandchildDelete(fn func(context.Context, string, string, string) (core.Result, error)) deleteFunc {
	return func(ctx context.Context, keys []string, id string) (core.Result, error) { return fn(ctx, keys[0], keys[1], id) }
}

// Key update rows use numeric ids.

func keyUpdateUpdate[T any](fn func(context.Context, string, string, int, func(*T) error) (T, core.Result, error)) updateFunc[T] {
	return func(ctx context.Context, keys []string, id string, mut func(*T) error) (T, core.Result, error) {
		n, err := strconv.Atoi(id)
		if err != nil {
			var zero T
			return zero, core.Result{}, badRequestError{msg: "key update id must be an integer"}
		}
		return fn(ctx, keys[0], keys[1], n, mut)
	}
}

func keyUpdateDelete(fn func(context.Context, string, string, int) (core.Result, error)) deleteFunc {
	return func(ctx context.Context, keys []string, id string) (core.Result, error) {
		n, err := strconv.Atoi(id)
		if err != nil {
			return core.Result{}, badRequestError{msg: "key update id must be an integer"}
		}
		return fn(ctx, keys[0], keys[1], n)
	}
}
