// Package memory 进程内实体仓库，进程退出即丢失。
package memory

import (
	"context"
	"sync"

	"work-placement/internal/domain"
)

type state struct {
	users  []domain.User
	jobs   []domain.Job
	apps   []domain.Application
	guides []domain.Guide
}

func (s *state) clone() *state {
	c := &state{
		users:  make([]domain.User, len(s.users)),
		jobs:   make([]domain.Job, len(s.jobs)),
		apps:   append([]domain.Application(nil), s.apps...),
		guides: append([]domain.Guide(nil), s.guides...),
	}
	for i, u := range s.users {
		c.users[i] = u.Clone()
	}
	for i, j := range s.jobs {
		c.jobs[i] = j.Clone()
	}
	return c
}

// Store 单把互斥锁保护全部集合；Atomically 在整个回调期间持锁
type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store { return &Store{st: &state{}} }

func (s *Store) Users() domain.UserRepository               { return userRepo{l: &s.mu, s: s} }
func (s *Store) Jobs() domain.JobRepository                 { return jobRepo{l: &s.mu, s: s} }
func (s *Store) Applications() domain.ApplicationRepository { return appRepo{l: &s.mu, s: s} }
func (s *Store) Guides() domain.GuideRepository             { return guideRepo{l: &s.mu, s: s} }

func (s *Store) Atomically(ctx context.Context, fn func(tx domain.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(view{s: s}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// view 已持锁的视图，仓库操作不再加锁
type view struct{ s *Store }

func (v view) Users() domain.UserRepository               { return userRepo{l: noLock{}, s: v.s} }
func (v view) Jobs() domain.JobRepository                 { return jobRepo{l: noLock{}, s: v.s} }
func (v view) Applications() domain.ApplicationRepository { return appRepo{l: noLock{}, s: v.s} }
func (v view) Guides() domain.GuideRepository             { return guideRepo{l: noLock{}, s: v.s} }

// Atomically 嵌套调用直接复用外层临界区
func (v view) Atomically(_ context.Context, fn func(tx domain.Store) error) error { return fn(v) }

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i := range items {
		if key(items[i]) == id {
			return i
		}
	}
	return -1
}
