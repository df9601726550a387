package transport

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saarzint/bolgenie/domain"
	"github.com/saarzint/bolgenie/internal/mocks"
)

func TestClient_Upload(t *testing.T) {
	var gotFilename, gotContent string
	router := gin.New()
	router.POST("/ocr/extract", func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{"code": "VALIDATION_ERROR", "message": "file missing"}})
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotFilename = header.Filename
		gotContent = string(data)
		c.JSON(http.StatusOK, gin.H{
			"data":           gin.H{"parties": gin.H{}, "cargo": []any{}},
			"confidence":     0.91,
			"processingTime": 1.2,
		})
	})

	store := mocks.NewMockTokenStore()
	require.NoError(t, store.SetTokens(domain.Credential{AccessToken: "acc", RefreshToken: "ref"}))
	client, _ := newTestClient(t, router, store, &stubRefresher{})

	var progress []int
	var out domain.OCRExtractResponse
	err := client.Upload(
		context.Background(),
		"/ocr/extract",
		"bol-scan.pdf",
		strings.NewReader("fake document bytes"),
		func(pct int) { progress = append(progress, pct) },
		&out,
	)
	require.NoError(t, err)

	assert.Equal(t, "bol-scan.pdf", gotFilename)
	assert.Equal(t, "fake document bytes", gotContent)
	assert.InDelta(t, 0.91, out.Confidence, 1e-9)

	require.NotEmpty(t, progress, "progress callback should fire")
	assert.Equal(t, 100, progress[len(progress)-1], "progress ends at 100")
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1], "progress is monotonic")
	}
}

func TestClient_UploadRetriesAfterRefresh(t *testing.T) {
	// The buffered body must be replayable when the first attempt hits an
	// auth failure and the pipeline retries with a fresh token.
	var uploads int
	var lastContent string
	router := gin.New()
	router.POST("/ocr/extract", func(c *gin.Context) {
		uploads++
		if c.GetHeader("Authorization") != "Bearer fresh" {
			authRequiredBody(c)
			return
		}
		file, _, err := c.Request.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		lastContent = string(data)
		c.JSON(http.StatusOK, gin.H{"data": gin.H{}, "confidence": 1.0, "processingTime": 0.5})
	})

	store := mocks.NewMockTokenStore()
	require.NoError(t, store.SetTokens(domain.Credential{AccessToken: "stale", RefreshToken: "ref"}))
	refresher := &stubRefresher{tokens: domain.Credential{AccessToken: "fresh", RefreshToken: "ref2"}}
	client, _ := newTestClient(t, router, store, refresher)

	var out domain.OCRExtractResponse
	err := client.Upload(context.Background(), "/ocr/extract", "doc.png", strings.NewReader("scan"), nil, &out)
	require.NoError(t, err)

	assert.Equal(t, 2, uploads)
	assert.Equal(t, "scan", lastContent, "retried request carries the full body")
	assert.Equal(t, int32(1), refresher.calls.Load())
}
