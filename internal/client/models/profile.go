package models

// Field names one persisted profile attribute. The value is the storage key.
type Field string

const (
	FieldName     Field = "user_name_detail"
	FieldAge      Field = "user_age_detail"
	FieldSkills   Field = "user_skills_detail"
	FieldLocation Field = "user_location_detail"
	FieldImage    Field = "profile_image_uri"
)

var ProfileFields = []Field{FieldName, FieldAge, FieldSkills, FieldLocation, FieldImage}

// ParseField accepts either a storage key or its short name
// (name, age, skills, location, image).
func ParseField(s string) (Field, bool) {
	switch s {
	case "name", string(FieldName):
		return FieldName, true
	case "age", string(FieldAge):
		return FieldAge, true
	case "skills", string(FieldSkills):
		return FieldSkills, true
	case "location", string(FieldLocation):
		return FieldLocation, true
	case "image", string(FieldImage):
		return FieldImage, true
	}
	return "", false
}

// ProfileDetails holds the fields that have a stored value. A missing key
// means the field was never set.
type ProfileDetails map[Field]string

func (p ProfileDetails) Get(f Field) (string, bool) {
	v, ok := p[f]
	return v, ok
}

func (p ProfileDetails) Clone() ProfileDetails {
	out := make(ProfileDetails, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ProfileSeed carries the optional values entered on the registration form.
type ProfileSeed struct {
	Name   string
	Age    string
	Skills string
}

// ProfileUpdate is a full edit of the four text fields.
type ProfileUpdate struct {
	Name     string
	Age      string
	Skills   string
	Location string
}
