// Package process tears down browser process trees. Chrome forks renderer,
// GPU and zygote helpers; killing only the launched PID can leave them
// running after a session ends, so sessions kill the whole group.
package process
