package broker

import "strings"

const (
	SubjectPrefix = "taskmanager"

	TaskSubjects = SubjectPrefix + ".task.>"
	UserSubjects = SubjectPrefix + ".user.>"
)

// SubjectFor returns the NATS subject an event type is published on,
// e.g. "taskmanager.task.created".
func SubjectFor(eventType string) string {
	return SubjectPrefix + "." + strings.ToLower(eventType)
}
