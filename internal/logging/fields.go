package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldDiscID is the standardized key for the hex disc identifier.
	FieldDiscID = "disc_id"
	// FieldTitle is the standardized key for title indexes.
	FieldTitle = "title"
	// FieldPlaylist is the standardized key for playlist identifiers.
	FieldPlaylist = "playlist"
	// FieldChapter is the standardized key for chapter indexes.
	FieldChapter = "chapter"
	// FieldAngle is the standardized key for angle indexes.
	FieldAngle = "angle"
	// FieldClip is the standardized key for clip identifiers.
	FieldClip = "clip"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldDecisionType names the policy choice being logged.
	FieldDecisionType = "decision_type"
)
