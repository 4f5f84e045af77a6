package domain

// HomeModule is a navigation tile on the hub home page.
type HomeModule struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Path        string `json:"path,omitempty"`
}

// WorkbenchGroup owns an ordered set of workbench items.
type WorkbenchGroup struct {
	ID    string          `json:"groupId"`
	Title string          `json:"groupTitle"`
	Items []WorkbenchItem `json:"items"`
}

// WorkbenchItem is a project tile. Each item owns exactly one ProjectDetails
// aggregate whose WorkbenchItemID equals the item id.
type WorkbenchItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description,omitempty"`
}

// OCMSetupItem is a single checklist entry under a setup topic.
type OCMSetupItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// OCMSetupTopicGroup groups checklist items under a heading.
type OCMSetupTopicGroup struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Items []OCMSetupItem `json:"items"`
}

// OCMSetupSidebarLink is a sidebar shortcut shown next to a setup step.
type OCMSetupSidebarLink struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// OCMSetupImageCard is the optional hero card of a setup step.
type OCMSetupImageCard struct {
	Title      string `json:"title"`
	ButtonText string `json:"buttonText"`
	ImageURL   string `json:"imageUrl"`
}

// OCMSetupStep is one step of the OCM workbench setup guide.
type OCMSetupStep struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	ImageCard    *OCMSetupImageCard    `json:"imageCard,omitempty"`
	Topics       []OCMSetupTopicGroup  `json:"topics"`
	SidebarTitle string                `json:"sidebarTitle,omitempty"`
	SidebarLinks []OCMSetupSidebarLink `json:"sidebarLinks"`
}
