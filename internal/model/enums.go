package model

// Bucket is a named partition of the object store
type Bucket string

const (
	BucketProfilePublic Bucket = "profile-public"
	BucketAdultPrivate  Bucket = "adult-private"
	BucketChatTemp      Bucket = "chat-temp"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityMembers Visibility = "members"
	VisibilityPrivate Visibility = "private"
)

type Category string

const (
	CategoryProfile Category = "profile"
	CategoryPost    Category = "post"
	CategoryChat    Category = "chat"
	CategoryAdult   Category = "adult"
)

// Kind is the coarse content type derived from a MIME type
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindGIF   Kind = "gif"
	KindOther Kind = "other"
)

// Moderation is consumed by the external review process. New records
// always start as pending.
type Moderation string

const (
	ModerationPending  Moderation = "pending"
	ModerationApproved Moderation = "approved"
	ModerationRejected Moderation = "rejected"
)
