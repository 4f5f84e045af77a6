package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewMockForTests returns a Store backed by an in-memory fake HTTP transport
// implementing Head/Get/Put/Delete/ListObjectsV2.
func NewMockForTests() *Store {
	return newMockStore(&mockRoundTripper{state: make(map[string]mockObj)})
}

func newMockStore(rt *mockRoundTripper) *Store {
	cfg, _ := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	return &Store{client: client, bucket: "mock-bucket"}
}

type mockRoundTripper struct {
	mu    sync.Mutex
	state map[string]mockObj
	// pageSize > 0 splits list responses into pages.
	pageSize int
}

type mockObj struct {
	body        []byte
	contentType string
	metadata    map[string]string
}

func emptyResponse(code int) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) { //nolint:cyclop
	m.mu.Lock()
	defer m.mu.Unlock()
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		return m.list(req), nil
	}
	switch req.Method {
	case http.MethodHead, http.MethodGet:
		st, ok := m.state[key]
		if !ok {
			return emptyResponse(http.StatusNotFound), nil
		}
		h := http.Header{
			"Content-Length": {strconv.Itoa(len(st.body))},
			"Content-Type":   {st.contentType},
			"Etag":           {"\"etag-" + key + "\""},
			"Last-Modified":  {time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).Format(http.TimeFormat)},
		}
		for k, v := range st.metadata {
			h.Set("X-Amz-Meta-"+k, v)
		}
		body := st.body
		if req.Method == http.MethodHead {
			body = nil
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(body)), Header: h, ContentLength: int64(len(st.body))}, nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		md := make(map[string]string)
		for name, vals := range req.Header {
			if strings.HasPrefix(strings.ToLower(name), "x-amz-meta-") && len(vals) > 0 {
				md[strings.ToLower(strings.TrimPrefix(strings.ToLower(name), "x-amz-meta-"))] = vals[0]
			}
		}
		if _, exists := m.state[key]; !exists {
			m.state[key] = mockObj{body: body, contentType: req.Header.Get("Content-Type"), metadata: md}
		}
		resp := emptyResponse(http.StatusOK)
		resp.Header.Set("Etag", "\"etag-"+key+"\"")
		return resp, nil
	case http.MethodDelete:
		delete(m.state, key)
		return emptyResponse(http.StatusNoContent), nil
	}
	return emptyResponse(http.StatusNotImplemented), nil
}

func (m *mockRoundTripper) list(req *http.Request) *http.Response {
	q := req.URL.Query()
	prefix := q.Get("prefix")
	var keys []string
	for k := range m.state {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	start := 0
	if tok := q.Get("continuation-token"); tok != "" {
		start, _ = strconv.Atoi(tok)
	}
	end := len(keys)
	if m.pageSize > 0 && start+m.pageSize < end {
		end = start + m.pageSize
	}
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><ListBucketResult>`)
	if end < len(keys) {
		fmt.Fprintf(&b, "<IsTruncated>true</IsTruncated><NextContinuationToken>%d</NextContinuationToken>", end)
	} else {
		b.WriteString("<IsTruncated>false</IsTruncated>")
	}
	for _, k := range keys[start:end] {
		fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2024-01-01T00:00:00Z</LastModified></Contents>", k, len(m.state[k].body))
	}
	b.WriteString("</ListBucketResult>")
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(b.String())), Header: http.Header{"Content-Type": {"application/xml"}}}
}

// decodeChunked decodes a single-chunk aws-chunked payload: <hex>\r\n<body>\r\n0\r\n...
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	// chunk headers may carry ";chunk-signature=..." extensions
	sizeHex, _, _ := strings.Cut(parts[0], ";")
	n, err := strconv.ParseInt(sizeHex, 16, 64)
	if err != nil || n <= 0 || int64(len(parts[1])) != n {
		return nil, false
	}
	if zero, _, _ := strings.Cut(parts[2], ";"); zero != "0" {
		return nil, false
	}
	return []byte(parts[1]), true
}
