package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/xiebiao/bookapp/internal/application/pricing"
)

func newDiscountCmd(withRuntime runE) *cobra.Command {
	return &cobra.Command{
		Use:   "discount <percentage>",
		Short: "按百分比重新计算全部图书的折后价",
		Long: `按百分比重新计算全部图书的折后价（discounted_price = price - price*P/100）。

每本书输出一行结果，未定价的图书跳过；单本失败不影响其余图书。
结果总是从price计算，重复执行同一比例结果不变。

Examples:
  bookctl discount 15
  bookctl discount 0     # 折后价恢复为原价`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly one argument: percentage")
			}
			if _, err := pricing.ParsePercentage(args[0]); err != nil {
				return errors.New(pricing.MsgPercentageNotInteger)
			}
			return nil
		},
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			percentage, _ := pricing.ParsePercentage(args[0])
			_, err := rt.container.Discount.Execute(cmd.Context(), percentage, cmd.OutOrStdout())
			return err
		}),
	}
}
