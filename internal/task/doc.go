// Package task manages background job queuing and processing. It provides
// asynchronous execution for work that should not block study-session
// request handling, such as persisting scheduling state after a grading
// event.
package task
