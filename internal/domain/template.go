package domain

type TemplateID string

// Template is a preconfigured pod image offered as a creation option.
type Template struct {
	ID              TemplateID
	Name            string
	ImageName       string
	DockerArgs      string
	ContainerDiskGB int
	Ports           string
}

// Label returns the display name for a template, falling back to a shortened id.
func (t Template) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return shortID(string(t.ID))
}

type VolumeID string

// NetworkVolume is optional persistent storage attachable to a pod at creation.
type NetworkVolume struct {
	ID           VolumeID
	Name         string
	SizeGB       int
	DataCenterID string
}

func (v NetworkVolume) Label() string {
	if v.Name != "" {
		return v.Name
	}
	return shortID(string(v.ID))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
