package catalog

import "strings"

const generateCommand = "mvn archetype:generate \\<br />" +
	"  -DarchetypeGroupId=com.liferay.faces.archetype \\<br />" +
	"  -DarchetypeArtifactId=com.liferay.faces.archetype.SUITE.portlet \\<br />" +
	"  -DarchetypeVersion=VERSION \\<br />" +
	"  -DgroupId=com.mycompany \\<br />" +
	"  -DartifactId=com.mycompany.my.SUITE.portlet"

var suiteTitles = map[string]string{
	"alloy":       "Liferay Faces Alloy",
	"bootsfaces":  "BootsFaces",
	"butterfaces": "ButterFaces",
	"icefaces":    "ICEfaces",
	"jsf":         "JSF Standard",
	"metal":       "Liferay Faces Metal",
	"primefaces":  "PrimeFaces",
	"richfaces":   "RichFaces",
}

// SuiteTitle returns the display name of a suite
func SuiteTitle(name string) (string, bool) {
	title, ok := suiteTitles[name]
	return title, ok
}

// GenerateCommand returns the archetype:generate command for a suite version
func GenerateCommand(suite, version string) string {
	cmd := strings.ReplaceAll(generateCommand, "VERSION", version)
	return strings.ReplaceAll(cmd, "SUITE", suite)
}
