// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// LoginReq は/auth/loginエンドポイントのリクエストボディを表します。
// 必須フィールドとメール形式のバリデーションを含みます。
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRes はログイン成功時のレスポンスです。トークンはクッキーにも設定されます。
type LoginRes struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
