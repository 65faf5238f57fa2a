package models

// Contact is one row of the contact list.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// ContactRecord is a contacts-table row as managed by the admin tool.
type ContactRecord struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// Contact drops the database identity.
func (r ContactRecord) Contact() Contact {
	return Contact{Name: r.Name, Email: r.Email, Company: r.Company}
}
