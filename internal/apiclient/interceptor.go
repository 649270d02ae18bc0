// Package apiclient はHRMS APIのJSONクライアントとインターセプタチェーンを提供する。
//
// リクエストは登録順にインターセプタを通過し、最後にトランスポートへ渡る。
// 典型的な構成はモック → 認証 → エラー処理 → トランスポートの順。
// モックが応答したリクエストは後続のインターセプタを通らない。
package apiclient

import (
	"net/http"
)

// Interceptor はリクエストを加工・短絡・観測する関数。
// 処理を続ける場合はnext.RoundTripを呼ぶ。
type Interceptor func(req *http.Request, next http.RoundTripper) (*http.Response, error)

// RoundTripperFunc は関数をhttp.RoundTripperとして扱うアダプタ。
type RoundTripperFunc func(req *http.Request) (*http.Response, error)

// RoundTrip はfを呼ぶ。
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain はインターセプタをtransportの手前に順に積んだhttp.RoundTripperを返す。
// interceptors[0]が最初にリクエストを受け取る。transportがnilならhttp.DefaultTransportを使う。
func Chain(transport http.RoundTripper, interceptors ...Interceptor) http.RoundTripper {
	if transport == nil {
		transport = http.DefaultTransport
	}
	next := transport
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic := interceptors[i]
		inner := next
		next = RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return ic(req, inner)
		})
	}
	return next
}
