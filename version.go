package gridbase

// Version is the SDK version reported in the client identifier header.
const Version = "1.2.0"

const userAgent = "gridbase-go/" + Version
