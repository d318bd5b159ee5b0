package main

import "github.com/fabiopossato/F-bio/core"

func (cli *commandLine) resetPassword(email, pwd string) error {
	stu, err := cli.studentRepo.GetStudentByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	stu.Password = pwd
	if _, err := cli.studentRepo.UpdateStudent(stu); err != nil {
		return err
	}
	return nil
}
