package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"

	"blog_backend/internal/shared/apperror"
)

const (
	// pgUndefinedColumn はPostgreSQLの存在しない列への参照エラーです。
	pgUndefinedColumn = "42703"
	// pgInvalidTextRepresentation はPostgreSQLの型変換エラー（不正なUUIDなど）です。
	pgInvalidTextRepresentation = "22P02"
)

// WriteError はエラーを {code, status, message, errors?} 形式で書き込み、リクエストを中断します。
//
// 変換ルール:
//   - *apperror.Error はKindに対応するステータスとメッセージをそのまま使う
//   - バインド時のバリデーションエラーは400 "Validation Error" とフィールドごとの詳細
//   - 列が存在しない永続化エラーは400 "Invalid Property"
//   - UUIDの形式エラーは400 "Invalid UUID"
//   - それ以外は500 "Internal Server Error"（内部のエラー文言は返さない）
func WriteError(c *gin.Context, err error) {
	appErr := Normalize(err)
	if appErr.Kind == apperror.KindInternal {
		slog.Error("request failed", "error", err, "method", c.Request.Method, "path", c.FullPath())
	}

	code := appErr.Code()
	if code == 0 {
		code = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(code, ErrorResponse{
		Code:    code,
		Status:  statusError,
		Message: appErr.Message,
		Errors:  appErr.Errors,
	})
}

// Normalize は任意のエラーを *apperror.Error に変換します。
func Normalize(err error) *apperror.Error {
	if appErr, ok := apperror.As(err); ok {
		return appErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.InvalidArgument("Validation Error", fieldErrors(verrs)...)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedColumn:
			return apperror.InvalidArgument("Invalid Property")
		case pgInvalidTextRepresentation:
			return apperror.InvalidArgument("Invalid UUID")
		}
	}

	// ドライバによってはコードを持たないため文言でも判定する
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "does not exist") && strings.Contains(msg, "column"):
			return apperror.InvalidArgument("Invalid Property")
		case strings.Contains(msg, "invalid input syntax for type uuid"), strings.Contains(msg, "invalid UUID"):
			return apperror.InvalidArgument("Invalid UUID")
		}
	}

	return apperror.Internal(err)
}

// BindError はgin のバインドエラーを400に変換します。
// JSONの構文エラーなどバリデーション以外の失敗も400として扱います。
func BindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.InvalidArgument("Validation Error", fieldErrors(verrs)...)
	}
	return apperror.InvalidArgument("Invalid request body", err.Error())
}

func fieldErrors(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
