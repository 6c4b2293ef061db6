package placement

import (
	"sort"
	"strconv"
	"strings"

	"work-placement/internal/domain"
)

// JobCard 岗位列表项（含派生的名额/资格信息）
type JobCard struct {
	domain.Job
	ApprovedCount int  `json:"approvedCount"`
	Full          bool `json:"full"`
	Eligible      bool `json:"eligible"`
}

type JobBoard struct {
	Open   []JobCard `json:"open"`
	Closed []JobCard `json:"closed"`
}

// StudentJobBoard 学生端岗位列表：同届 + 文本筛选，按是否满员分组，组内按序号升序
func StudentJobBoard(student domain.User, jobs []domain.Job, apps []domain.Application, text string) JobBoard {
	board := JobBoard{Open: []JobCard{}, Closed: []JobCard{}}
	for _, j := range SortJobs(jobs) {
		if j.ProgramYear != student.ProgramYear || !matchJobText(j, text, true) {
			continue
		}
		card := newCard(j, apps)
		card.Eligible = IsEligible(student, j)
		if card.Full {
			board.Closed = append(board.Closed, card)
		} else {
			board.Open = append(board.Open, card)
		}
	}
	return board
}

// AdminJobList 管理端岗位列表：按标题/公司筛选（不限届别）
func AdminJobList(jobs []domain.Job, apps []domain.Application, text string) []JobCard {
	out := []JobCard{}
	for _, j := range SortJobs(jobs) {
		if !matchJobText(j, text, false) {
			continue
		}
		out = append(out, newCard(j, apps))
	}
	return out
}

func newCard(j domain.Job, apps []domain.Application) JobCard {
	n := ComputeApprovedCount(j.ID, apps)
	return JobCard{Job: j, ApprovedCount: n, Full: n >= j.Capacity}
}

func matchJobText(j domain.Job, text string, withLocation bool) bool {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return true
	}
	if n, err := strconv.Atoi(q); err == nil && j.SequenceNumber > 0 && n == j.SequenceNumber {
		return true
	}
	if strings.Contains(strings.ToLower(j.Title), q) || strings.Contains(strings.ToLower(j.CompanyName), q) {
		return true
	}
	return withLocation && strings.Contains(strings.ToLower(j.Location), q)
}

// seqKey 序号 <=0 视为缺失，排最后
func seqKey(n int) (missing bool, v int) { return n <= 0, n }

func lessSeq(a, b int) bool {
	am, av := seqKey(a)
	bm, bv := seqKey(b)
	if am != bm {
		return bm
	}
	return av < bv
}

// SortJobs 按序号稳定升序，返回新切片
func SortJobs(jobs []domain.Job) []domain.Job {
	out := append([]domain.Job(nil), jobs...)
	sort.SliceStable(out, func(i, k int) bool { return lessSeq(out[i].SequenceNumber, out[k].SequenceNumber) })
	return out
}

func SortUsers(users []domain.User) []domain.User {
	out := append([]domain.User(nil), users...)
	sort.SliceStable(out, func(i, k int) bool { return lessSeq(out[i].SequenceNumber, out[k].SequenceNumber) })
	return out
}

type MatchFilter string

const (
	MatchAll       MatchFilter = ""
	MatchMatched   MatchFilter = "matched"
	MatchUnmatched MatchFilter = "unmatched"
)

func (m MatchFilter) Valid() bool { return m == MatchAll || m == MatchMatched || m == MatchUnmatched }

type StudentQuery struct {
	Text        string
	ProgramYear string
	Match       MatchFilter
}

type StudentRow struct {
	domain.User
	Matched     bool                `json:"matched"`
	Application *domain.Application `json:"application,omitempty"`
}

// FilterStudents 管理端学生列表。Matched = 有已录用申请。
// Application 优先取有效申请，否则取最近一条。
func FilterStudents(users []domain.User, apps []domain.Application, q StudentQuery) []StudentRow {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := []StudentRow{}
	for _, u := range SortUsers(users) {
		if !u.IsStudent() {
			continue
		}
		if q.ProgramYear != "" && u.ProgramYear != q.ProgramYear {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(u.Name), text) &&
			!(u.SequenceNumber > 0 && strings.Contains(strconv.Itoa(u.SequenceNumber), text)) {
			continue
		}
		row := StudentRow{User: u, Application: studentApplication(u.ID, apps)}
		row.Matched = row.Application != nil && row.Application.Status == domain.StatusApproved
		switch q.Match {
		case MatchMatched:
			if !row.Matched {
				continue
			}
		case MatchUnmatched:
			if row.Matched {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}

func studentApplication(userID string, apps []domain.Application) *domain.Application {
	if a := HasActiveApplication(userID, apps); a != nil {
		return a
	}
	for i := len(apps) - 1; i >= 0; i-- {
		if apps[i].UserID == userID {
			a := apps[i]
			return &a
		}
	}
	return nil
}

// ApplicationView 申请 + 关联岗位/学生
type ApplicationView struct {
	domain.Application
	Job     domain.Job  `json:"job"`
	Student domain.User `json:"student"`
}

// IntegrityWarning 申请引用了不存在的岗位或学生
type IntegrityWarning struct {
	ApplicationID string
	Missing       string // "job" | "user"
	RefID         string
}

// JoinApplications 关联查询；悬空引用的申请直接过滤并以 warning 形式返回
func JoinApplications(apps []domain.Application, users []domain.User, jobs []domain.Job) ([]ApplicationView, []IntegrityWarning) {
	userByID := make(map[string]domain.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	jobByID := make(map[string]domain.Job, len(jobs))
	for _, j := range jobs {
		jobByID[j.ID] = j
	}

	views := []ApplicationView{}
	var warns []IntegrityWarning
	for _, a := range apps {
		j, ok := jobByID[a.JobID]
		if !ok {
			warns = append(warns, IntegrityWarning{ApplicationID: a.ID, Missing: "job", RefID: a.JobID})
			continue
		}
		u, ok := userByID[a.UserID]
		if !ok {
			warns = append(warns, IntegrityWarning{ApplicationID: a.ID, Missing: "user", RefID: a.UserID})
			continue
		}
		views = append(views, ApplicationView{Application: a, Job: j, Student: u})
	}
	return views, warns
}
