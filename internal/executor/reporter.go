package executor

import "github.com/specialistvlad/coyote/internal/recipe"

// Reporter receives progress events from a run. Calls are made from the
// goroutine running the executor, in order.
type Reporter interface {
	RunStarted(r *recipe.Recipe)
	TargetStarted(index, total int, t *recipe.Target)
	CommandFinished(index, total int, res Result)
	// RunFinished is called once at the end of a run. err is the fatal error
	// that stopped the run, or nil.
	RunFinished(rep *Report, err error)
}

// Reporters fans every event out to each reporter in order.
type Reporters []Reporter

func (rs Reporters) RunStarted(r *recipe.Recipe) {
	for _, rep := range rs {
		rep.RunStarted(r)
	}
}

func (rs Reporters) TargetStarted(index, total int, t *recipe.Target) {
	for _, rep := range rs {
		rep.TargetStarted(index, total, t)
	}
}

func (rs Reporters) CommandFinished(index, total int, res Result) {
	for _, rep := range rs {
		rep.CommandFinished(index, total, res)
	}
}

func (rs Reporters) RunFinished(report *Report, err error) {
	for _, rep := range rs {
		rep.RunFinished(report, err)
	}
}
