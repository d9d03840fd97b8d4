package email

const (
	subjectInquiryNotificationFmt = "New property inquiry from %s %s"
)
