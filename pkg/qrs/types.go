package qrs

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Auditing carries the fields the platform maintains on every full entity.
type Auditing struct {
	CreatedDate  *time.Time `json:"createdDate,omitempty"        yaml:"created_date,omitempty"`
	ModifiedDate *time.Time `json:"modifiedDate,omitempty"       yaml:"modified_date,omitempty"`
	ModifiedBy   string     `json:"modifiedByUserName,omitempty" yaml:"modified_by,omitempty"`
	SchemaPath   string     `json:"schemaPath,omitempty"         yaml:"schema_path,omitempty"`
}

// Entity is the contract every trackable domain entity satisfies. Condensed
// forms are plain values; only full forms are entities, because only they can
// be added, updated, and removed.
//
// The interface is deliberately closed over this package: the client targets
// exactly the resource shapes the platform exposes.
type Entity interface {
	// EntityID returns the platform-assigned identifier, empty before the
	// entity has been created on the server.
	EntityID() string

	// EntityName returns the display name.
	EntityName() string

	// Validate checks the entity locally and reports a ValidationError
	// without any network call.
	Validate() error

	setWire(raw []byte)
	wireJSON() []byte
	touch(t time.Time)
	absorb(from Entity) error
}

// wire holds the raw JSON an entity was decoded from, so server-only fields
// unknown to the mapping survive a round trip.
type wire struct {
	raw []byte
}

func (w *wire) setWire(raw []byte) { w.raw = raw }
func (w *wire) wireJSON() []byte   { return w.raw }

func (a *Auditing) touch(t time.Time) { a.ModifiedDate = &t }

// Touch stamps the entity's modification timestamp. Update uses it under the
// last-write-wins concurrency policy.
func Touch(e Entity, t time.Time) { e.touch(t) }

func validGUID(kind, id string) error {
	if id == "" {
		return nil
	}

	if _, err := uuid.Parse(id); err != nil {
		return &ValidationError{Kind: kind, Field: "id", Detail: fmt.Sprintf("malformed identifier %q", id)}
	}

	return nil
}

// AppCondensed represents an app with identity attribution only.
type AppCondensed struct {
	ID                    string           `json:"id,omitempty"                    yaml:"id,omitempty"`
	Name                  string           `json:"name"                            yaml:"name"`
	Privileges            []string         `json:"privileges,omitempty"            yaml:"privileges,omitempty"`
	AppID                 string           `json:"appId,omitempty"                 yaml:"app_id,omitempty"`
	PublishTime           *time.Time       `json:"publishTime,omitempty"           yaml:"publish_time,omitempty"`
	Published             bool             `json:"published"                       yaml:"published"`
	Stream                *StreamCondensed `json:"stream,omitempty"                yaml:"stream,omitempty"`
	SavedInProductVersion string           `json:"savedInProductVersion,omitempty" yaml:"saved_in_product_version,omitempty"`
	MigrationHash         string           `json:"migrationHash,omitempty"         yaml:"migration_hash,omitempty"`
	AvailabilityStatus    string           `json:"availabilityStatus,omitempty"    yaml:"availability_status,omitempty"`
}

// EntityID returns the platform-assigned identifier.
func (a *AppCondensed) EntityID() string { return a.ID }

// EntityName returns the display name.
func (a *AppCondensed) EntityName() string { return a.Name }

// App represents an app with full attribution.
type App struct {
	AppCondensed `yaml:",inline"`
	Auditing     `yaml:",inline"`
	wire

	Description      string                `json:"description,omitempty"      yaml:"description,omitempty"`
	FileSize         int64                 `json:"fileSize,omitempty"         yaml:"file_size,omitempty"`
	LastReloadTime   *time.Time            `json:"lastReloadTime,omitempty"   yaml:"last_reload_time,omitempty"`
	Thumbnail        string                `json:"thumbnail,omitempty"        yaml:"thumbnail,omitempty"`
	DynamicColor     string                `json:"dynamicColor,omitempty"     yaml:"dynamic_color,omitempty"`
	SourceAppID      string                `json:"sourceAppId,omitempty"      yaml:"source_app_id,omitempty"`
	TargetAppID      string                `json:"targetAppId,omitempty"      yaml:"target_app_id,omitempty"`
	Owner            *UserCondensed        `json:"owner,omitempty"            yaml:"owner,omitempty"`
	CustomProperties []CustomPropertyValue `json:"customProperties,omitempty" yaml:"custom_properties,omitempty"`
	Tags             []TagCondensed        `json:"tags,omitempty"             yaml:"tags,omitempty"`
}

// Validate implements Entity.Validate.
func (a *App) Validate() error {
	if a.Name == "" {
		return &ValidationError{Kind: "app", Field: "name", Detail: "name is required"}
	}

	if err := validGUID("app", a.ID); err != nil {
		return err
	}

	for i := range a.CustomProperties {
		if err := a.CustomProperties[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) absorb(from Entity) error {
	refreshed, ok := from.(*App)
	if !ok {
		return fmt.Errorf("cannot refresh app from %T", from)
	}

	*a = *refreshed

	return nil
}

// AppExport represents an export-in-progress for one app. It is a derived,
// read-mostly projection and has no condensed/full duality.
type AppExport struct {
	ExportToken  string `json:"exportToken"          yaml:"export_token"`
	AppID        string `json:"appId"                yaml:"app_id"`
	DownloadPath string `json:"downloadPath"         yaml:"download_path"`
	SchemaPath   string `json:"schemaPath,omitempty" yaml:"schema_path,omitempty"`
	Cancelled    bool   `json:"cancelled"            yaml:"cancelled"`
}

// StreamCondensed represents a stream with identity attribution only.
type StreamCondensed struct {
	ID         string   `json:"id,omitempty"         yaml:"id,omitempty"`
	Name       string   `json:"name"                 yaml:"name"`
	Privileges []string `json:"privileges,omitempty" yaml:"privileges,omitempty"`
}

// EntityID returns the platform-assigned identifier.
func (s *StreamCondensed) EntityID() string { return s.ID }

// EntityName returns the display name.
func (s *StreamCondensed) EntityName() string { return s.Name }

// Stream represents a stream with full attribution.
type Stream struct {
	StreamCondensed `yaml:",inline"`
	Auditing        `yaml:",inline"`
	wire

	Owner            *UserCondensed        `json:"owner,omitempty"            yaml:"owner,omitempty"`
	CustomProperties []CustomPropertyValue `json:"customProperties,omitempty" yaml:"custom_properties,omitempty"`
	Tags             []TagCondensed        `json:"tags,omitempty"             yaml:"tags,omitempty"`
}

// Validate implements Entity.Validate.
func (s *Stream) Validate() error {
	if s.Name == "" {
		return &ValidationError{Kind: "stream", Field: "name", Detail: "name is required"}
	}

	return validGUID("stream", s.ID)
}

func (s *Stream) absorb(from Entity) error {
	refreshed, ok := from.(*Stream)
	if !ok {
		return fmt.Errorf("cannot refresh stream from %T", from)
	}

	*s = *refreshed

	return nil
}

// UserCondensed represents a user with identity attribution only.
type UserCondensed struct {
	ID            string   `json:"id,omitempty"         yaml:"id,omitempty"`
	Name          string   `json:"name,omitempty"       yaml:"name,omitempty"`
	Privileges    []string `json:"privileges,omitempty" yaml:"privileges,omitempty"`
	UserID        string   `json:"userId"               yaml:"user_id"`
	UserDirectory string   `json:"userDirectory"        yaml:"user_directory"`
}

// EntityID returns the platform-assigned identifier.
func (u *UserCondensed) EntityID() string { return u.ID }

// EntityName returns the display name.
func (u *UserCondensed) EntityName() string { return u.Name }

// User represents a user with full attribution.
type User struct {
	UserCondensed `yaml:",inline"`
	Auditing      `yaml:",inline"`
	wire

	Roles             []string `json:"roles,omitempty"   yaml:"roles,omitempty"`
	Inactive          bool     `json:"inactive"          yaml:"inactive"`
	RemovedExternally bool     `json:"removedExternally" yaml:"removed_externally"`
	Blacklisted       bool     `json:"blacklisted"       yaml:"blacklisted"`
	DeleteProhibited  bool     `json:"deleteProhibited"  yaml:"delete_prohibited"`
}

// Validate implements Entity.Validate.
func (u *User) Validate() error {
	if u.UserID == "" {
		return &ValidationError{Kind: "user", Field: "userId", Detail: "user id is required"}
	}

	if u.UserDirectory == "" {
		return &ValidationError{Kind: "user", Field: "userDirectory", Detail: "user directory is required"}
	}

	return validGUID("user", u.ID)
}

func (u *User) absorb(from Entity) error {
	refreshed, ok := from.(*User)
	if !ok {
		return fmt.Errorf("cannot refresh user from %T", from)
	}

	*u = *refreshed

	return nil
}

// Custom property value types allowed by the platform.
const (
	ValueTypeText      = "Text"
	ValueTypeInteger   = "Integer"
	ValueTypeDecimal   = "Decimal"
	ValueTypeDate      = "Date"
	ValueTypeTimestamp = "Timestamp"
)

func validValueType(valueType string) bool {
	switch valueType {
	case ValueTypeText, ValueTypeInteger, ValueTypeDecimal, ValueTypeDate, ValueTypeTimestamp:
		return true
	default:
		return false
	}
}

// CustomPropertyDefinitionCondensed represents a custom property definition
// with identity attribution only.
type CustomPropertyDefinitionCondensed struct {
	ID           string   `json:"id,omitempty"           yaml:"id,omitempty"`
	Name         string   `json:"name"                   yaml:"name"`
	Privileges   []string `json:"privileges,omitempty"   yaml:"privileges,omitempty"`
	ValueType    string   `json:"valueType"              yaml:"value_type"`
	ChoiceValues []string `json:"choiceValues,omitempty" yaml:"choice_values,omitempty"`
}

// EntityID returns the platform-assigned identifier.
func (d *CustomPropertyDefinitionCondensed) EntityID() string { return d.ID }

// EntityName returns the display name.
func (d *CustomPropertyDefinitionCondensed) EntityName() string { return d.Name }

// CustomPropertyDefinition represents a custom property definition with full
// attribution.
type CustomPropertyDefinition struct {
	CustomPropertyDefinitionCondensed `yaml:",inline"`
	Auditing                          `yaml:",inline"`
	wire

	ObjectTypes []string `json:"objectTypes,omitempty" yaml:"object_types,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate implements Entity.Validate.
func (d *CustomPropertyDefinition) Validate() error {
	if d.Name == "" {
		return &ValidationError{Kind: "custompropertydefinition", Field: "name", Detail: "name is required"}
	}

	if !validValueType(d.ValueType) {
		return &ValidationError{
			Kind:   "custompropertydefinition",
			Field:  "valueType",
			Detail: fmt.Sprintf("value type %q is not allowed by the platform", d.ValueType),
		}
	}

	return validGUID("custompropertydefinition", d.ID)
}

func (d *CustomPropertyDefinition) absorb(from Entity) error {
	refreshed, ok := from.(*CustomPropertyDefinition)
	if !ok {
		return fmt.Errorf("cannot refresh custom property definition from %T", from)
	}

	*d = *refreshed

	return nil
}

// CustomPropertyValue represents one applied custom property on an entity.
// It is always embedded and has no repository of its own.
type CustomPropertyValue struct {
	ID         string                             `json:"id,omitempty" yaml:"id,omitempty"`
	Value      string                             `json:"value"        yaml:"value"`
	Definition *CustomPropertyDefinitionCondensed `json:"definition"   yaml:"definition"`
}

// Validate checks the value locally.
func (v *CustomPropertyValue) Validate() error {
	if v.Value == "" {
		return &ValidationError{Kind: "custompropertyvalue", Field: "value", Detail: "value is required"}
	}

	if v.Definition == nil {
		return &ValidationError{Kind: "custompropertyvalue", Field: "definition", Detail: "definition is required"}
	}

	return validGUID("custompropertyvalue", v.ID)
}

// TagCondensed represents a tag with identity attribution only.
type TagCondensed struct {
	ID         string   `json:"id,omitempty"         yaml:"id,omitempty"`
	Name       string   `json:"name"                 yaml:"name"`
	Privileges []string `json:"privileges,omitempty" yaml:"privileges,omitempty"`
}

// EntityID returns the platform-assigned identifier.
func (t *TagCondensed) EntityID() string { return t.ID }

// EntityName returns the display name.
func (t *TagCondensed) EntityName() string { return t.Name }

// Tag represents a tag with full attribution.
type Tag struct {
	TagCondensed `yaml:",inline"`
	Auditing     `yaml:",inline"`
	wire
}

// Validate implements Entity.Validate.
func (t *Tag) Validate() error {
	if t.Name == "" {
		return &ValidationError{Kind: "tag", Field: "name", Detail: "name is required"}
	}

	return validGUID("tag", t.ID)
}

func (t *Tag) absorb(from Entity) error {
	refreshed, ok := from.(*Tag)
	if !ok {
		return fmt.Errorf("cannot refresh tag from %T", from)
	}

	*t = *refreshed

	return nil
}

// Task represents a platform-side task handed back by an asynchronous action.
type Task struct {
	ID      string `json:"id"                yaml:"id"`
	Status  string `json:"status"            yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Task terminal states.
const (
	TaskStatusSuccess = "FinishedSuccess"
	TaskStatusFail    = "FinishedFail"
	TaskStatusAborted = "Aborted"
	TaskStatusError   = "Error"
)

// Terminal reports whether the task has reached a terminal state.
func (t *Task) Terminal() bool {
	switch t.Status {
	case TaskStatusSuccess, TaskStatusFail, TaskStatusAborted, TaskStatusError:
		return true
	default:
		return false
	}
}

// About describes the repository service build that answered the handshake.
type About struct {
	BuildVersion      string `json:"buildVersion"               yaml:"build_version"`
	BuildDate         string `json:"buildDate"                  yaml:"build_date"`
	DatabaseProvider  string `json:"databaseProvider,omitempty" yaml:"database_provider,omitempty"`
	SchemaPath        string `json:"schemaPath,omitempty"       yaml:"schema_path,omitempty"`
	SharedPersistence bool   `json:"sharedPersistence"          yaml:"shared_persistence"`
}
