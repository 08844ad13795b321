package devserver

import "time"

type User struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName,omitempty"`
	UserName string `json:"userName,omitempty"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	// Password is the seed plaintext. New replaces it with PasswordHash.
	Password     string `json:"-"`
	PasswordHash string `json:"-"`
}

type Company struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"-"`
}

type Project struct {
	ID                 string    `json:"_id"`
	ProjectName        string    `json:"projectName"`
	ProjectDescription string    `json:"projectDescription"`
	CompanyID          string    `json:"companyId"`
	Members            []string  `json:"members"`
	CreatedBy          string    `json:"createdBy,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

type Task struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ProjectID   string    `json:"projectId"`
	AssignedTo  string    `json:"assignedTo,omitempty"`
	ETA         time.Time `json:"eta"`
	// Status is omitted when empty so clients exercise their default.
	Status string `json:"status,omitempty"`
}

// Seed is the initial dataset.
type Seed struct {
	Users     []User
	Companies []Company
	Projects  []Project
	Tasks     []Task
}

// DemoSeed is a small dataset for `taskdeck devserver`. Every password is "password".
func DemoSeed() Seed {
	created := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	return Seed{
		Users: []User{
			{ID: "u-ana", FullName: "Ana Torres", Email: "ana@acme.test", Role: "admin", Password: "password"},
			{ID: "u-bo", UserName: "bo", Email: "bo@acme.test", Password: "password"},
			{ID: "u-chen", Email: "chen@acme.test", Password: "password"},
		},
		Companies: []Company{
			{ID: "c-acme", Name: "Acme", Description: "Rockets and anvils", MemberIDs: []string{"u-ana", "u-bo", "u-chen"}},
			{ID: "c-globex", Name: "Globex", MemberIDs: []string{"u-ana"}},
		},
		Projects: []Project{
			{ID: "p-launch", ProjectName: "Launch", ProjectDescription: "Ship the **Q3** launch.", CompanyID: "c-acme", Members: []string{"u-ana", "u-bo"}, CreatedBy: "u-ana", CreatedAt: created},
		},
		Tasks: []Task{
			{ID: "t-copy", Title: "Write copy", Description: "Landing page", ProjectID: "p-launch", AssignedTo: "u-bo", ETA: created.Add(72 * time.Hour), Status: "in progress"},
		},
	}
}
