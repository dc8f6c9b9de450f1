package reporter

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobpost-crawler/internal/crawl"
	"go-jobpost-crawler/internal/models"
	"go-jobpost-crawler/internal/normalize"
)

type sentMessage struct {
	chatID    string
	text      string
	parseMode string
}

// fakeBotAPI answers getMe and sendMessage like the Bot API does.
func fakeBotAPI(t *testing.T) (*httptest.Server, *[]sentMessage) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var sent []sentMessage

	r := gin.New()
	r.POST("/bot/:token/:method", func(c *gin.Context) {
		switch c.Param("method") {
		case "getMe":
			c.JSON(http.StatusOK, gin.H{"ok": true, "result": gin.H{"id": 1, "is_bot": true, "first_name": "crawler", "username": "crawler_bot"}})
		case "sendMessage":
			sent = append(sent, sentMessage{
				chatID:    c.PostForm("chat_id"),
				text:      c.PostForm("text"),
				parseMode: c.PostForm("parse_mode"),
			})
			c.JSON(http.StatusOK, gin.H{"ok": true, "result": gin.H{"message_id": len(sent), "date": 0, "chat": gin.H{"id": 42, "type": "private"}}})
		default:
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error_code": 404, "description": "Not Found"})
		}
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, &sent
}

func newTestReporter(t *testing.T) (*TelegramReporter, *[]sentMessage) {
	srv, sent := fakeBotAPI(t)
	rep, err := NewTelegramReporterWithEndpoint("123:abc", 42, "Toss", srv.URL+"/bot/%s/%s")
	require.NoError(t, err)
	return rep, sent
}

func TestSendRunSummary(t *testing.T) {
	rep, sent := newTestReporter(t)

	err := rep.SendRunSummary(crawl.Result{
		State:      crawl.StateDone,
		Discovered: 2,
		Attempted:  2,
		Inserted:   1,
		Records: []models.JobPosting{{
			JobTitle:       "Server Developer <Core>",
			JobURL:         "https://toss.im/career/job-detail?job_id=1",
			EmploymentType: "정규직",
		}},
		Skipped: []crawl.Skip{{URL: "https://toss.im/career/job-detail?job_id=2", Reason: crawl.SkipValidation, Err: normalize.ErrEmptyTitle}},
	})
	require.NoError(t, err)

	require.Len(t, *sent, 1)
	msg := (*sent)[0]
	assert.Equal(t, "42", msg.chatID)
	assert.Equal(t, "HTML", msg.parseMode)
	assert.Contains(t, msg.text, "Toss crawl done</b>: 1 new job posts")
	assert.Contains(t, msg.text, "Server Developer &lt;Core&gt;")
	assert.Contains(t, msg.text, "[validation] https://toss.im/career/job-detail?job_id=2")
}

func TestSendError(t *testing.T) {
	rep, sent := newTestReporter(t)

	require.NoError(t, rep.SendError(errors.New(`relation "JobPost" does not exist`)))

	require.Len(t, *sent, 1)
	assert.Equal(t, "⚠️ <b>Toss crawler error</b>:\nrelation &#34;JobPost&#34; does not exist", (*sent)[0].text)
}

func TestNewTelegramReporter_BadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/bot/:token/:method", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error_code": 401, "description": "Unauthorized"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	_, err := NewTelegramReporterWithEndpoint("bad", 42, "Toss", srv.URL+"/bot/%s/%s")
	assert.ErrorContains(t, err, "failed to init telegram bot")
}

func TestFormatRunSummary_Failed(t *testing.T) {
	text := FormatRunSummary("Toss", crawl.Result{State: crawl.StateFailed, Err: errors.New("permission denied for table JobPost")})

	assert.True(t, strings.HasPrefix(text, "❌ <b>Toss crawl failed</b>"))
	assert.Contains(t, text, "<code>permission denied for table JobPost</code>")
}

func TestFormatRunSummary_TruncatesLongLists(t *testing.T) {
	res := crawl.Result{State: crawl.StateDone}
	for i := 0; i < maxListLines+3; i++ {
		res.Skipped = append(res.Skipped, crawl.Skip{URL: fmt.Sprintf("https://x/%d", i), Reason: crawl.SkipNavigation})
	}

	text := FormatRunSummary("Toss", res)

	assert.Contains(t, text, "… and 3 more skipped")
	assert.NotContains(t, text, fmt.Sprintf("https://x/%d", maxListLines))
}
