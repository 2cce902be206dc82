package models

// DefaultUserID is the fixed single-user identity of this deployment.
const DefaultUserID = "demo_user"
