package revalidate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRoute behaves like the web app's revalidate endpoint; failFirst answers 500 that many times.
func fakeRoute(t *testing.T, token string, failFirst int) (*httptest.Server, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	calls := 0

	r := gin.New()
	r.POST("/api/revalidate", func(c *gin.Context) {
		calls++
		if c.GetHeader("Authorization") != "Bearer "+token {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}
		if calls <= failFirst {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "재검증 중 오류가 발생했습니다."})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"revalidated": true,
			"message":     "홈페이지가 성공적으로 재검증되었습니다.",
			"timestamp":   "2026-10-19T03:00:00.000Z",
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(url, token string) *Client {
	c := NewClient(url, token, 5*time.Second)
	c.newBackOff = func() backoff.BackOff { return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2) }
	return c
}

func TestTrigger(t *testing.T) {
	srv, calls := fakeRoute(t, "secret", 0)

	resp, err := newTestClient(srv.URL+"/api/revalidate", "secret").Trigger(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.Revalidated)
	assert.Equal(t, 2026, resp.Timestamp.Year())
	assert.Equal(t, 1, *calls)
}

func TestTrigger_RetriesServerErrors(t *testing.T) {
	srv, calls := fakeRoute(t, "secret", 2)

	_, err := newTestClient(srv.URL+"/api/revalidate", "secret").Trigger(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, *calls)
}

func TestTrigger_GivesUpAfterRetries(t *testing.T) {
	srv, calls := fakeRoute(t, "secret", 10)

	_, err := newTestClient(srv.URL+"/api/revalidate", "secret").Trigger(context.Background())
	assert.ErrorContains(t, err, "status 500")
	assert.Equal(t, 3, *calls)
}

func TestTrigger_WrongTokenFailsFast(t *testing.T) {
	srv, calls := fakeRoute(t, "secret", 0)

	_, err := newTestClient(srv.URL+"/api/revalidate", "wrong").Trigger(context.Background())
	assert.EqualError(t, err, "revalidate returned status 401: Invalid authorization token")
	assert.Equal(t, 1, *calls)
}
