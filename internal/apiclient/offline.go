package apiclient

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/hitoshi/hrms/internal/model"
)

// OfflineTransport はバックエンドが無いときに使う終端トランスポート。
// モックが応答しなかった全てのリクエストに404のJSONエラーを返す。
type OfflineTransport struct{}

// RoundTrip は404レスポンスを返す。
func (OfflineTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		req.Body.Close()
	}
	body, _ := json.Marshal(model.NewNotFoundError(req.URL.Path))
	return &http.Response{
		Status:        "404 Not Found",
		StatusCode:    http.StatusNotFound,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{"application/json"}},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
