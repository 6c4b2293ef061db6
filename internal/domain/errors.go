package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrIllegalState      = errors.New("illegal application state")
	ErrForbidden         = errors.New("forbidden")
)

// ValidationError 创建/更新时必填字段缺失或取值非法
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Entity, e.ID) }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NotFound(entity, id string) error { return &NotFoundError{Entity: entity, ID: id} }

type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change application from %s to %s", e.From, e.To)
}
func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }

// StateError 撤回时申请状态不允许
type StateError struct {
	Op     string
	Status Status
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s an application in status %s", e.Op, e.Status)
}
func (e *StateError) Unwrap() error { return ErrIllegalState }

// Reason 申请被拒的业务原因（预期内结果，非异常）
type Reason string

const (
	ReasonAlreadyActive Reason = "already_active"
	ReasonScoreTooLow   Reason = "score_too_low"
	ReasonJobFull       Reason = "job_full"
)

func (r Reason) Error() string { return string(r) }

// Rejection 带上下文的拒绝结果，errors.Is(err, ReasonXxx) 可直接判断
type Rejection struct {
	Reason Reason

	ActiveApplicationID string
	Score               float64
	MinScore            float64
	Approved            int
	Capacity            int
}

func (e *Rejection) Error() string {
	switch e.Reason {
	case ReasonAlreadyActive:
		return "you can only apply to one job at a time, withdraw your current application first"
	case ReasonScoreTooLow:
		return fmt.Sprintf("score too low: need %.1f, have %.1f", e.MinScore, e.Score)
	case ReasonJobFull:
		return fmt.Sprintf("job is full (%d/%d)", e.Approved, e.Capacity)
	}
	return string(e.Reason)
}

func (e *Rejection) Unwrap() error { return e.Reason }
