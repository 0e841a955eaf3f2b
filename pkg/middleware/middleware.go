// Package middleware 提供 HTTP 中间件功能.
package middleware
