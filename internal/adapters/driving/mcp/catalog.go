package mcp

// Offering describes one tool or resource the server exposes.
type Offering struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	URI         string `json:"uri,omitempty"`
	MIMEType    string `json:"mime_type,omitempty"`
	Description string `json:"description"`
}

// Catalog lists the tools and resources a server registers, tools first.
func Catalog() []Offering {
	tools := toolDefinitions()
	out := make([]Offering, 0, len(tools)+2)
	for _, t := range tools {
		out = append(out, Offering{Kind: "tool", Name: t.Name, Description: t.Description})
	}
	out = append(out,
		Offering{
			Kind:        "resource",
			Name:        statusResource.Name,
			URI:         statusResource.URI,
			MIMEType:    statusResource.MIMEType,
			Description: statusResource.Description,
		},
		Offering{
			Kind:        "resource",
			Name:        billTextTemplate.Name,
			URI:         billTextTemplate.URITemplate,
			MIMEType:    billTextTemplate.MIMEType,
			Description: billTextTemplate.Description,
		},
	)
	return out
}
