package response

import (
	"errors"

	"work-placement/internal/core/auth"
	"work-placement/internal/domain"
)

// CodeOf 领域错误 -> 响应码；未识别的一律 500
func CodeOf(err error) int {
	var rej *domain.Rejection
	switch {
	case err == nil:
		return CodeOK
	case errors.As(err, &rej):
		return CodeUnprocessable
	case errors.Is(err, domain.ErrValidation):
		return CodeBadRequest
	case errors.Is(err, auth.ErrInvalidToken):
		return CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return CodeForbidden
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrIllegalTransition), errors.Is(err, domain.ErrIllegalState):
		return CodeConflict
	}
	return CodeServerError
}

// FromError 把 service 返回的错误转成信封。500 不透出内部信息。
func FromError(err error) Resp {
	code := CodeOf(err)
	switch code {
	case CodeOK:
		return OK(nil)
	case CodeServerError:
		return Error(code, "")
	case CodeUnprocessable:
		var rej *domain.Rejection
		errors.As(err, &rej)
		return ErrorWithData(code, rej.Error(), RejectionData(rej))
	}
	return Error(code, err.Error())
}

// RejectionData 只带与拒绝原因相关的字段
func RejectionData(rej *domain.Rejection) map[string]interface{} {
	data := map[string]interface{}{"reason": string(rej.Reason)}
	switch rej.Reason {
	case domain.ReasonAlreadyActive:
		data["activeApplicationId"] = rej.ActiveApplicationID
	case domain.ReasonScoreTooLow:
		data["score"] = rej.Score
		data["minScore"] = rej.MinScore
	case domain.ReasonJobFull:
		data["approved"] = rej.Approved
		data["capacity"] = rej.Capacity
	}
	return data
}
