package session

import "github.com/matzehuels/featurehack/pkg/metadata"

// privacy answers IsPrivate from whichever source the detected cargo supports.
type privacy interface {
	isPrivate(c *Context, id metadata.PackageID) bool
}

func privacyFor(level int) privacy {
	if level >= metadata.PublishLevel {
		return metadataPrivacy{}
	}
	return manifestPrivacy{}
}

// metadataPrivacy reads packages[].publish from cargo metadata.
type metadataPrivacy struct{}

func (metadataPrivacy) isPrivate(c *Context, id metadata.PackageID) bool {
	return !c.Package(id).Publish
}

// manifestPrivacy reads package.publish from Cargo.toml.
type manifestPrivacy struct{}

func (manifestPrivacy) isPrivate(c *Context, id metadata.PackageID) bool {
	return !c.Manifest(id).Publish
}
