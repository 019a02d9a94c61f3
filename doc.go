// Package osal implements the runtime of a portable operating system
// abstraction layer: scheduling, mutual exclusion, counting semaphores and
// heap services, behind a uniform interface, bound to a concrete host.
//
// # Architecture
//
// A single [System] aggregates one [Heap], one [Scheduler], one
// [MutexManager], one [SemaphoreManager] and one [StreamManager]. It exists
// only for the duration of [Run], which constructs it, starts the caller's
// [Task] on the primary thread, and tears it down.
//
// Each subsystem manager owns a bounded resource [Pool], sized at
// configuration time. A capacity of zero means "draw from the heap", unless
// the heap is configured as [HeapNone], in which case the manager is valid but
// can never serve a resource.
//
// # Construction Validation
//
// Setup failure is never signalled by panicking. Every stateful object
// records whether it constructed successfully, see [Object]. A parent is
// constructed only if all of its children are. Operations on an object that
// failed to construct return the neutral failure value, typically
// [ErrNotConstructed].
//
// # Fatal Paths
//
// Two conditions terminate the process, as they indicate a build or startup
// ordering defect: calling [GetSystem] outside of [Run], and allocating from
// a [HeapNone] heap. Both log at the critical level first, to the configured
// logger, or os.Stderr if none is reachable.
//
// # Usage
//
//	os.Exit(osal.Run(osal.TaskFunc(func() {
//	    sys := osal.GetSystem()
//	    mutex, err := sys.MutexManager().Create()
//	    if err != nil {
//	        return
//	    }
//	    defer mutex.Close()
//	    // ...
//	}), osal.WithMutexCapacity(8)))
package osal
