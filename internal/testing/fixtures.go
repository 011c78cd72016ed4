package testing

// FreshHost scripts a Debian target that has never been provisioned: no
// update stamp, no packages, no files, services stopped and a timezone
// that does not match.
func FreshHost() *FakeExecutor {
	return NewFakeExecutor().
		On("stat -c %Y", Response{ExitCode: 1}).
		On("dpkg-query -W", Response{ExitCode: 1}).
		On("sha256sum", Response{ExitCode: 1}).
		On("test -d", Response{ExitCode: 1}).
		On("test -L", Response{ExitCode: 1}).
		On("grep -q", Response{ExitCode: 1}).
		On(" status", Response{ExitCode: 3})
}

// ProvisionedHost scripts a target where every check already passes. The
// update stamp is an hour old.
func ProvisionedHost() *FakeExecutor {
	return NewFakeExecutor().
		On("stat -c %Y", Response{Output: "1700000000\n"}).
		On("date +%s", Response{Output: "1700003600\n"}).
		On("dpkg-query -W", Response{Output: "install ok installed"}).
		On("grep -q", Response{ExitCode: 0}).
		On(" status", Response{ExitCode: 0})
}

// NonDebianHost scripts a target without apt tooling.
func NonDebianHost() *FakeExecutor {
	return NewFakeExecutor().
		On("command -v apt-get", Response{ExitCode: 1}).
		On("command -v dpkg-query", Response{ExitCode: 1})
}
