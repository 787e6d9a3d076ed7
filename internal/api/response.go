// Package api はHTTP境界で共通に使うレスポンス形式を定義します。
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response は成功時のレスポンスボディです。
type Response struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse は失敗時のレスポンスボディです。
// Code はHTTPステータスと同じ値になります。
type ErrorResponse struct {
	Code    int      `json:"code"`
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// Pagination は一覧系レスポンスのページ情報です。
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Page は一覧データとページ情報をまとめたものです。
type Page struct {
	Items      any        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// WriteJSON は成功レスポンスを書き込みます。
func WriteJSON(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Response{
		Code:    code,
		Status:  statusSuccess,
		Message: message,
		Data:    data,
	})
}

// OK は200の成功レスポンスを書き込みます。
func OK(c *gin.Context, message string, data any) {
	WriteJSON(c, http.StatusOK, message, data)
}

// Created は201の成功レスポンスを書き込みます。
func Created(c *gin.Context, message string, data any) {
	WriteJSON(c, http.StatusCreated, message, data)
}
