/*
Package inmem implements the store repository interface. This implementation is meant
to help run hebe locally against sample notifications without a need to setup
a dedicated DB. Since records live only as long as the process, it is recommended
for test environments only.
*/
package inmem
