// Package jobs defines the background queue jobs.
package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/inbox/pkg/mail"
	"github.com/shashiranjanraj/inbox/pkg/queue"
)

// InviteEmailJob emails a user that they were invited to a group. Dispatched
// by the catalog service so the HTTP request never waits on SMTP.
type InviteEmailJob struct {
	Email     string `json:"email"`
	UserName  string `json:"user_name"`
	GroupName string `json:"group_name"`
}

func (j *InviteEmailJob) Handle() error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>You were invited to join the group <strong>%s</strong>. "+
			"Open your notifications to accept the invite.</p>",
		j.UserName, j.GroupName,
	)
	return mail.To(j.Email).
		Subject(fmt.Sprintf("Invite to %s", j.GroupName)).
		Body(body).
		Send()
}

// Register makes the job types deserialisable by the queue workers. Call
// once at boot.
func Register() {
	queue.Register("*jobs.InviteEmailJob", func() queue.Job { return &InviteEmailJob{} })
}
