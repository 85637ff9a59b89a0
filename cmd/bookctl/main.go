// bookctl 运维命令：折扣批处理、后台worker、用户角色管理
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(defaultOpener).Execute(); err != nil {
		os.Exit(1)
	}
}
