/*
Package env abstracts environment variable access so action inputs and the
GitHub runner context can be injected in tests.

Production code reads through OSReader:

	reader := &env.OSReader{}
	token := reader.Getenv("INPUT_GITHUB-TOKEN")

Tests use MapReader for fixed values or the generated mock in the mocks
sub-package when call expectations matter:

	ctrl := gomock.NewController(t)
	mock := mocks.NewMockReader(ctrl)
	mock.EXPECT().Getenv("GITHUB_REF").Return("refs/tags/5.0.1")
*/
package env
