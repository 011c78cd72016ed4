package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// request is what the fake server saw.
type request struct {
	Method      string
	Path        string
	ContentType string
	Body        string
}

// fakeS3 records requests and answers them with respond.
type fakeS3 struct {
	mu       sync.Mutex
	requests []request
	respond  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, request{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(body),
	})
	f.mu.Unlock()
	f.respond(w, r)
}

func (f *fakeS3) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requests))
	for i, r := range f.requests {
		out[i] = r.Method
	}
	return out
}

func newTestClient(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeS3) {
	t.Helper()
	fake := &fakeS3{respond: respond}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	api := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient:   &http.Client{Transport: &http.Transport{}},
	})
	return &Client{api: api, region: "us-east-1"}, fake
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message></Error>`, code, code)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(context.Background(), Options{
		Endpoint:  "http://localhost:9000",
		Region:    "eu-central-1",
		AccessKey: "a",
		SecretKey: "s",
	})
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", client.Region())
}

func TestEnsureBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		respond     func(w http.ResponseWriter, r *http.Request)
		wantMethods []string
		wantErr     string
	}{
		{
			name:        "existing bucket",
			respond:     func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
			wantMethods: []string{http.MethodHead},
		},
		{
			name: "missing bucket is created",
			respond: func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodHead {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
			},
			wantMethods: []string{http.MethodHead, http.MethodPut},
		},
		{
			name: "bucket created concurrently",
			respond: func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodHead {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				writeError(w, http.StatusConflict, "BucketAlreadyOwnedByYou")
			},
			wantMethods: []string{http.MethodHead, http.MethodPut},
		},
		{
			name:        "head denied",
			respond:     func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) },
			wantMethods: []string{http.MethodHead},
			wantErr:     "failed to check bucket runs",
		},
		{
			name: "create denied",
			respond: func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodHead {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				writeError(w, http.StatusForbidden, "AccessDenied")
			},
			wantMethods: []string{http.MethodHead, http.MethodPut},
			wantErr:     "failed to create bucket runs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, fake := newTestClient(t, tt.respond)

			err := client.EnsureBucket(context.Background(), "runs")

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantMethods, fake.methods())
		})
	}
}

func TestPutObject(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	data := `{"id":"1"}`
	require.NoError(t, client.PutObject(context.Background(), "runs", "dev/run.json", "application/json", []byte(data)))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.requests, 1)
	got := fake.requests[0]
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/runs/dev/run.json", got.Path)
	assert.Equal(t, "application/json", got.ContentType)
	assert.Equal(t, data, got.Body)
}

func TestPutObject_Error(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusForbidden, "AccessDenied")
	})

	err := client.PutObject(context.Background(), "runs", "k", "", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload k to bucket runs")
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"no such bucket", fmt.Errorf("outer: %w", &s3types.NoSuchBucket{}), "NoSuchBucket"},
		{"not found", &s3types.NotFound{}, "NotFound"},
		{"owned", fmt.Errorf("outer: %w", &s3types.BucketAlreadyOwnedByYou{}), "BucketAlreadyOwnedByYou"},
		{"exists", &s3types.BucketAlreadyExists{}, "BucketAlreadyExists"},
		{"transport", fmt.Errorf("dial tcp: connection refused"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, errorCode(tt.err))
		})
	}

	assert.True(t, isMissingBucket(&s3types.NotFound{}))
	assert.False(t, isMissingBucket(&s3types.BucketAlreadyExists{}))
	assert.True(t, isOwnedBucket(&s3types.BucketAlreadyExists{}))
	assert.False(t, isOwnedBucket(nil))
}
