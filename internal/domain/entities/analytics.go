package entities

// UnassignedLabel buckets tasks without an assignee
const UnassignedLabel = "Unassigned"

// MemberTaskCount is the number of tasks assigned to one member
type MemberTaskCount struct {
	Name  string `json:"name"`
	Tasks int    `json:"tasks"`
}

// TeamAnalytics aggregates task progress for a team
type TeamAnalytics struct {
	TotalTasks      int               `json:"totalTasks"`
	CompletedTasks  int               `json:"completedTasks"`
	InProgressTasks int               `json:"inProgressTasks"`
	PendingTasks    int               `json:"pendingTasks"`
	CompletionRate  int               `json:"completionRate"`
	TasksPerMember  []MemberTaskCount `json:"tasksPerMember"`
	MemberCount     int               `json:"memberCount"`
	ActiveMembers   int               `json:"activeMembers"`
}

// Dashboard is the team overview page payload
type Dashboard struct {
	Team          *Team          `json:"team"`
	Analytics     *TeamAnalytics `json:"analytics"`
	Members       []*TeamMember  `json:"members"`
	LatestSummary *AISummary     `json:"latestSummary"`
}
