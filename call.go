package osal

// Get is shorthand for [GetSystem], the entry point for system calls made
// from within a task, e.g. osal.Get().Scheduler().Sleep(100).
func Get() *System {
	return GetSystem()
}
