package nav

// Stack 导航栈，栈底为当前 tab 的根页面
type Stack struct {
	routes []Route
}

func NewStack(root Route) Stack { return Stack{routes: []Route{root}} }

func (s Stack) Current() Route {
	if len(s.routes) == 0 {
		return To(ViewLogin)
	}
	return s.routes[len(s.routes)-1]
}

func (s Stack) Depth() int { return len(s.routes) }

// Push 返回新栈；与当前页相同则不重复入栈
func (s Stack) Push(r Route) Stack {
	if len(s.routes) > 0 && s.Current() == r {
		return s
	}
	out := make([]Route, len(s.routes), len(s.routes)+1)
	copy(out, s.routes)
	return Stack{routes: append(out, r)}
}

// Pop 返回上一层；已在栈底时 ok=false，栈不变
func (s Stack) Pop() (Stack, bool) {
	if len(s.routes) <= 1 {
		return s, false
	}
	return Stack{routes: s.routes[: len(s.routes)-1 : len(s.routes)-1]}, true
}

// Switch 切换 tab：清空栈，以新页面为根
func (s Stack) Switch(r Route) Stack { return NewStack(r) }
