package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool { return r == RoleStudent || r == RoleAdmin }

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
	Email        string `json:"email,omitempty"`
}

type User struct {
	ID                string             `json:"id"`
	SequenceNumber    int                `json:"sequenceNumber"` // 管理员手动排序号，<=0 视为未设置
	Name              string             `json:"name"`
	Role              Role               `json:"role"`
	School            string             `json:"school"`
	Phone             string             `json:"phone"`
	ProgramYear       string             `json:"programYear"`
	Score             float64            `json:"score"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

func (u User) IsStudent() bool { return u.Role == RoleStudent }

// Clone 深拷贝（切片字段不共享底层数组）
func (u User) Clone() User {
	if u.EmergencyContacts != nil {
		u.EmergencyContacts = append([]EmergencyContact(nil), u.EmergencyContacts...)
	}
	return u
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
}
