package apiclient

import "net/http"

// AuthInterceptor はトークンがある場合にAuthorization: Bearerヘッダーを付与する。
// tokenはリクエストごとに呼ばれ、空文字列ならヘッダーを付けない。
func AuthInterceptor(token func() string) Interceptor {
	return func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
		t := token()
		if t == "" {
			return next.RoundTrip(req)
		}
		// RoundTripperは元のリクエストを変更してはならない
		r := req.Clone(req.Context())
		r.Header.Set("Authorization", "Bearer "+t)
		return next.RoundTrip(r)
	}
}
